package oddsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchResults_ParsesFirstMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscription/pl-PL/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("events"); got != "901" {
			t.Errorf("unexpected events param %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(": keep-alive\n"))
		_, _ = w.Write([]byte("data: not json\n"))
		_, _ = w.Write([]byte(`data: [{"results":[{"name":"Match Winner","odds":[` +
			`{"uuid":"u1","status":3,"price":1},` +
			`{"uuid":"u2","status":4,"price":0},` +
			`{"uuid":"","status":3,"price":1}]}]}]` + "\n"))
		_, _ = w.Write([]byte(`data: [{"results":[{"name":"ignored second message","odds":[]}]}]` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	results, err := client.FetchResults(context.Background(), "901")
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 tuples, got %d: %+v", len(results), results)
	}
	if results[0].UUID != "u1" || results[0].Status != 3 || results[0].Price != 1 {
		t.Fatalf("unexpected first tuple: %+v", results[0])
	}
	if results[1].UUID != "u2" || results[1].Status != 4 || results[1].Price != 0 {
		t.Fatalf("unexpected second tuple: %+v", results[1])
	}
}

func TestClient_FetchResults_BareJSONLine(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"results":[{"name":"m","odds":[{"uuid":"u9","status":5,"price":0.5}]}]}]` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	results, err := client.FetchResults(context.Background(), "901")
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}
	if len(results) != 1 || results[0].UUID != "u9" || results[0].Status != 5 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestClient_FetchResults_EmptyStream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(": nothing here\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	results, err := client.FetchResults(context.Background(), "901")
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results for empty stream, got %+v", results)
	}
}
