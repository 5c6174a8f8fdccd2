package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/config"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
	"github.com/oddspulse/oddspulse/internal/platform/resilience"
)

// One-shot operational fetch: dump the upcoming games and their markets for a
// single tournament key so an operator can inspect what ingestion would see.
func main() {
	sportKey := flag.String("sport", "", "provider sport key (required)")
	tournamentKey := flag.String("tournament", "", "provider tournament key (required)")
	days := flag.Int("days", 3, "days forward to query")
	withMarkets := flag.Bool("markets", true, "fetch bet events per game")
	flag.Parse()

	if strings.TrimSpace(*sportKey) == "" || strings.TrimSpace(*tournamentKey) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	client := oddsfeed.NewClient(oddsfeed.ClientConfig{
		OfferBaseURL:         cfg.FeedOfferBaseURL,
		SubscriptionBaseURL:  cfg.FeedSubscriptionBaseURL,
		CatalogURL:           cfg.FeedCatalogURL,
		Lang:                 cfg.FeedLang,
		Timeout:              cfg.FeedTimeout,
		MaxAttempts:          cfg.FeedMaxAttempts,
		BackoffBase:          cfg.FeedBackoffBase,
		MarketGroupBlockList: cfg.FeedMarketGroupBlockList,
		MarketNameBlockList:  cfg.FeedMarketNameBlockList,
		Logger:               logging.NewJSON(logging.LevelWarn),
		CircuitBreaker:       resilience.BreakerConfig{Enabled: false},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	games, err := client.FetchLeagueGames(ctx, *sportKey, []string{*tournamentKey}, *days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch games: %v\n", err)
		os.Exit(1)
	}

	type gameDump struct {
		Game    oddsfeed.GameEntry       `json:"game"`
		Markets []oddsfeed.BetEventEntry `json:"markets,omitempty"`
	}

	out := make([]gameDump, 0, len(games))
	for _, game := range games {
		dump := gameDump{Game: game}
		if *withMarkets && strings.TrimSpace(game.ExternalID) != "" {
			markets, err := client.FetchGameMarkets(ctx, game.ExternalID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fetch markets for %s: %v\n", game.ExternalID, err)
			} else {
				dump.Markets = markets
			}
		}
		out = append(out, dump)
	}

	encoder := sonic.ConfigDefault.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}
