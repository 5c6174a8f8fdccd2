package oddsfeed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// FetchCatalog retrieves the flat sport/league catalog listing.
func (c *Client) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	if c.catalogURL == "" {
		return nil, fmt.Errorf("catalog url is not configured")
	}

	var entries []CatalogEntry
	if err := c.getJSON(ctx, c.catalogURL, nil, &entries); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	out := make([]CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Key = strings.TrimSpace(entry.Key)
		entry.Group = strings.TrimSpace(entry.Group)
		entry.Title = strings.TrimSpace(entry.Title)
		if entry.Key == "" || entry.Group == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// FetchSports retrieves the sport list from the provider structure endpoint.
func (c *Client) FetchSports(ctx context.Context) ([]SportEntry, error) {
	var envelope structEnvelope
	if err := c.getJSON(ctx, c.offerURL("/struct"), nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch sports struct: %w", err)
	}

	sports := make([]SportEntry, 0, len(envelope.Data.Sports))
	for _, item := range envelope.Data.Sports {
		name := strings.TrimSpace(item.LocalNames.get(c.lang))
		if item.ID <= 0 || name == "" {
			continue
		}
		sports = append(sports, SportEntry{
			ExternalKey: strconv.FormatInt(item.ID, 10),
			Name:        name,
		})
	}
	return sports, nil
}

// FetchTournaments retrieves the competitions offered for one sport. The
// top-level tournament label doubles as the country code of its competitions.
func (c *Client) FetchTournaments(ctx context.Context, sportKey string) ([]TournamentEntry, error) {
	sportKey = strings.TrimSpace(sportKey)
	if sportKey == "" {
		return nil, fmt.Errorf("sport key is required")
	}

	var envelope tournamentsEnvelope
	path := c.offerURL("/sport/" + sportKey + "/tournaments")
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch tournaments sport_key=%s: %w", sportKey, err)
	}

	out := make([]TournamentEntry, 0, len(envelope.Data))
	for _, group := range envelope.Data {
		countryCode := strings.TrimSpace(group.LocalNames.get(c.lang))
		for _, competition := range group.Competitions {
			if competition.TournamentID <= 0 {
				continue
			}
			out = append(out, TournamentEntry{
				ExternalKey: strconv.FormatInt(competition.TournamentID, 10),
				Name:        strings.TrimSpace(competition.LocalNames.get(c.lang)),
				CountryCode: countryCode,
			})
		}
	}
	return out, nil
}
