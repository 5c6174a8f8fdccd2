package oddsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const matchNameDelimiter = "·"

// FetchLeagueGames retrieves upcoming games for a batch of tournaments inside
// the window today .. today+daysForward. Games with an unparseable match name
// or date are skipped with a warning.
func (c *Client) FetchLeagueGames(ctx context.Context, sportKey string, tournamentKeys []string, daysForward int) ([]GameEntry, error) {
	if len(tournamentKeys) == 0 {
		return nil, nil
	}
	if daysForward <= 0 {
		daysForward = 3
	}

	now := time.Now().UTC()
	query := url.Values{}
	query.Set("currentStatus", "active")
	query.Set("offerState", "prematch")
	query.Set("startDate", now.Format("2006-01-02")+" 00:00:00")
	query.Set("endDate", now.AddDate(0, 0, daysForward).Format("2006-01-02")+" 00:00:00")
	query.Set("sportId", sportKey)
	query.Set("tournamentIds", strings.Join(tournamentKeys, ","))

	var envelope eventsByDateEnvelope
	if err := c.getJSON(ctx, c.offerURL("/events/by-date"), query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch league games sport_key=%s: %w", sportKey, err)
	}

	games := make([]GameEntry, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		homeTeam, awayTeam, ok := splitMatchName(item.MatchName)
		if !ok {
			c.logger.WarnContext(ctx, "skip game with malformed match name", "match_name", item.MatchName)
			continue
		}
		startTime, ok := parseMatchDate(item.MatchDate)
		if !ok {
			c.logger.WarnContext(ctx, "skip game with unparseable date", "match_date", item.MatchDate, "match_name", item.MatchName)
			continue
		}

		entry := GameEntry{
			HomeTeam:      homeTeam,
			AwayTeam:      awayTeam,
			StartTime:     startTime,
			TournamentKey: strconv.FormatInt(item.TournamentID, 10),
		}
		if item.EventID > 0 {
			entry.ExternalID = strconv.FormatInt(item.EventID, 10)
		}
		games = append(games, entry)
	}
	return games, nil
}

// FetchGameMarkets retrieves the market tree for one game and flattens it
// into bet event candidates, dropping block-listed market groups and names
// and de-duplicating by outcome uuid and label within the fetch. A 404 means
// the provider no longer offers the game and yields an empty result.
func (c *Client) FetchGameMarkets(ctx context.Context, eventID string) ([]BetEventEntry, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	var envelope eventDetailEnvelope
	if err := c.getJSON(ctx, c.offerURL("/events/"+eventID), nil, &envelope); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			c.logger.WarnContext(ctx, "game not found, skipping bet events", "event_id", eventID)
			return nil, nil
		}
		return nil, fmt.Errorf("fetch game markets event_id=%s: %w", eventID, err)
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}

	detail := envelope.Data[0]
	blockedMarkets, err := c.blockedMarketIDs(ctx, detail.SportID)
	if err != nil {
		return nil, fmt.Errorf("fetch market groups event_id=%s: %w", eventID, err)
	}

	seen := make(map[string]struct{}, len(detail.Odds))
	out := make([]BetEventEntry, 0, len(detail.Odds))
	for _, odd := range detail.Odds {
		uuid := strings.TrimSpace(odd.UUID)
		if uuid == "" {
			continue
		}
		if _, blocked := blockedMarkets[odd.MarketID]; blocked {
			continue
		}
		if c.isBlockedMarketName(odd.MarketName) {
			continue
		}

		label := strings.TrimSpace(odd.MarketName) + " - " + strings.TrimSpace(odd.Name)
		if _, dup := seen[uuid]; dup {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[uuid] = struct{}{}
		seen[label] = struct{}{}

		out = append(out, BetEventEntry{
			ExternalID:   uuid,
			Label:        label,
			Odds:         odd.Price,
			CategoryID:   strconv.FormatInt(odd.MarketID, 10),
			CategoryName: strings.TrimSpace(odd.MarketName),
		})
	}
	return out, nil
}

// CheckFinished probes the event detail endpoint. The game counts as finished
// only when both offer state fields report "finished".
func (c *Client) CheckFinished(ctx context.Context, eventID string) (bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return false, fmt.Errorf("event id is required")
	}

	var envelope eventDetailEnvelope
	if err := c.getJSON(ctx, c.offerURL("/events/"+eventID), nil, &envelope); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check finished event_id=%s: %w", eventID, err)
	}
	if len(envelope.Data) == 0 {
		return false, nil
	}

	status := envelope.Data[0].OfferStateStatus
	return strings.EqualFold(status["1"], "finished") && strings.EqualFold(status["2"], "finished"), nil
}

func (c *Client) blockedMarketIDs(ctx context.Context, sportID int64) (map[int64]struct{}, error) {
	blocked := make(map[int64]struct{})
	if len(c.groupBlockList) == 0 || sportID <= 0 {
		return blocked, nil
	}

	var envelope marketGroupsEnvelope
	path := c.offerURL("/sport/" + strconv.FormatInt(sportID, 10) + "/prematch-markets")
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return blocked, nil
		}
		return nil, err
	}

	for _, group := range envelope.Data {
		groupName := strings.TrimSpace(group.LocalNames.get(c.lang))
		if groupName == "" {
			continue
		}
		for _, blockedName := range c.groupBlockList {
			if strings.EqualFold(groupName, blockedName) {
				for _, marketID := range group.Markets {
					blocked[marketID] = struct{}{}
				}
				break
			}
		}
	}
	return blocked, nil
}

func (c *Client) isBlockedMarketName(marketName string) bool {
	if marketName == "" {
		return false
	}
	for _, blockedName := range c.nameBlockList {
		if blockedName != "" && strings.Contains(marketName, blockedName) {
			return true
		}
	}
	return false
}

func splitMatchName(matchName string) (string, string, bool) {
	parts := strings.SplitN(matchName, matchNameDelimiter, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	homeTeam := strings.TrimSpace(parts[0])
	awayTeam := strings.TrimSpace(parts[1])
	if homeTeam == "" || awayTeam == "" {
		return "", "", false
	}
	return homeTeam, awayTeam, true
}

func parseMatchDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
