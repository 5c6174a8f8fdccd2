package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  string
		args []any
		skip bool
	}{
		{"health check request", "http request", []any{"path", "/healthz"}, true},
		{"regular request", "http request", []any{"path", "/v1/ranges"}, false},
		{"non-request event on health path", "catalog synced from tournaments", []any{"path", "/healthz"}, false},
		{"no args", "http request", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldSkipUptraceLog(tc.msg, tc.args); got != tc.skip {
				t.Fatalf("shouldSkipUptraceLog(%q) = %v, want %v", tc.msg, got, tc.skip)
			}
		})
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{"league_id", int64(12), "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("got %d attributes, want 3", len(attrs))
	}
	if attrs[0].Key != "league_id" || attrs[0].Value.AsInt64() != 12 {
		t.Fatalf("unexpected league_id attribute: %v", attrs[0])
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute: %v", attrs[1])
	}
	// Dangling key gets an empty value instead of being dropped.
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute: %v", attrs[2])
	}
}

func TestToOTelLogValue(t *testing.T) {
	t.Parallel()

	t.Run("map", func(t *testing.T) {
		v := toOTelLogValue(map[string]any{"picks": 11, "won": true}, 0)
		if v.Kind() != otellog.KindMap {
			t.Fatalf("kind = %s, want map", v.Kind())
		}
		if items := v.AsMap(); len(items) != 2 {
			t.Fatalf("got %d map items, want 2", len(items))
		}
	})

	t.Run("depth limit collapses to string", func(t *testing.T) {
		nested := map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": 1}}}}
		if v := toOTelLogValue(nested, 0); v.Kind() == otellog.KindEmpty {
			t.Fatalf("deep value should not collapse to empty")
		}
	})
}
