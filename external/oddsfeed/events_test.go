package oddsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_FetchLeagueGames(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pl-PL/events/by-date" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("tournamentIds"); got != "11,12" {
			t.Errorf("unexpected tournamentIds %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"matchName":"Arsenal · Chelsea","matchDate":"2026-09-02 18:30:00","tournamentId":11,"eventId":901},
			{"matchName":"Liverpool · Everton","matchDate":"2026-09-03T12:00:00Z","tournamentId":12,"eventId":902},
			{"matchName":"NoDelimiterHere","matchDate":"2026-09-03 12:00:00","tournamentId":12,"eventId":903},
			{"matchName":"Leeds · Fulham","matchDate":"not-a-date","tournamentId":12,"eventId":904},
			{"matchName":"Spurs · West Ham","matchDate":"2026-09-04 10:00:00","tournamentId":11,"eventId":0}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	games, err := client.FetchLeagueGames(context.Background(), "5", []string{"11", "12"}, 3)
	if err != nil {
		t.Fatalf("fetch league games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games after skipping malformed rows, got %d: %+v", len(games), games)
	}

	first := games[0]
	if first.HomeTeam != "Arsenal" || first.AwayTeam != "Chelsea" {
		t.Fatalf("unexpected teams: %+v", first)
	}
	if first.ExternalID != "901" || first.TournamentKey != "11" {
		t.Fatalf("unexpected ids: %+v", first)
	}
	want := time.Date(2026, 9, 2, 18, 30, 0, 0, time.UTC)
	if !first.StartTime.Equal(want) {
		t.Fatalf("unexpected start time: %s", first.StartTime)
	}

	if games[2].ExternalID != "" {
		t.Fatalf("expected empty external id when provider has none, got %q", games[2].ExternalID)
	}
}

func TestClient_FetchGameMarkets_FiltersAndDedupes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/pl-PL/events/901":
			_, _ = w.Write([]byte(`{"data":[{"sportId":5,"odds":[
				{"uuid":"u1","marketId":1,"marketName":"Match Winner","name":"Arsenal","price":1.8},
				{"uuid":"u2","marketId":1,"marketName":"Match Winner","name":"Chelsea","price":2.1},
				{"uuid":"u2","marketId":1,"marketName":"Match Winner","name":"Chelsea","price":2.1},
				{"uuid":"u3","marketId":7,"marketName":"Specials","name":"Red Card","price":5.0},
				{"uuid":"u4","marketId":9,"marketName":"Player Props Goals","name":"Saka","price":3.2}
			]}]}`))
		case "/pl-PL/sport/5/prematch-markets":
			_, _ = w.Write([]byte(`{"data":[
				{"localNames":{"pl-PL":"Specials"},"markets":[7]},
				{"localNames":{"pl-PL":"Main"},"markets":[1]}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	client.groupBlockList = []string{"Specials"}
	client.nameBlockList = []string{"Player Props"}

	events, err := client.FetchGameMarkets(context.Background(), "901")
	if err != nil {
		t.Fatalf("fetch game markets: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after filtering and dedupe, got %d: %+v", len(events), events)
	}
	if events[0].ExternalID != "u1" || events[0].Label != "Match Winner - Arsenal" || events[0].Odds != 1.8 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if events[0].CategoryID != "1" || events[0].CategoryName != "Match Winner" {
		t.Fatalf("unexpected category: %+v", events[0])
	}
}

func TestClient_FetchGameMarkets_NotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	events, err := client.FetchGameMarkets(context.Background(), "901")
	if err != nil {
		t.Fatalf("expected 404 to yield empty result, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestClient_CheckFinished(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "both finished",
			body: `{"data":[{"offerStateStatus":{"1":"Finished","2":"FINISHED"}}]}`,
			want: true,
		},
		{
			name: "one still active",
			body: `{"data":[{"offerStateStatus":{"1":"finished","2":"active"}}]}`,
			want: false,
		},
		{
			name: "empty payload",
			body: `{"data":[]}`,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newTestClient(t, server)
			finished, err := client.CheckFinished(context.Background(), "901")
			if err != nil {
				t.Fatalf("check finished: %v", err)
			}
			if finished != tc.want {
				t.Fatalf("expected finished=%v, got %v", tc.want, finished)
			}
		})
	}
}

func TestSplitMatchName(t *testing.T) {
	t.Parallel()

	home, away, ok := splitMatchName("Arsenal · Chelsea")
	if !ok || home != "Arsenal" || away != "Chelsea" {
		t.Fatalf("unexpected split: %q %q ok=%v", home, away, ok)
	}

	if _, _, ok := splitMatchName("Arsenal vs Chelsea"); ok {
		t.Fatal("expected split to fail without delimiter")
	}
	if _, _, ok := splitMatchName("· Chelsea"); ok {
		t.Fatal("expected split to fail with empty home team")
	}
}
