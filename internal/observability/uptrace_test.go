package observability

import (
	"context"
	"testing"

	"github.com/oddspulse/oddspulse/internal/config"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func TestUptraceDisabledReason(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"toggle off", config.Config{UptraceEnabled: false, UptraceDSN: "https://token@api.uptrace.dev/1"}, "UPTRACE_ENABLED=false"},
		{"blank dsn", config.Config{UptraceEnabled: true, UptraceDSN: "  "}, "UPTRACE_DSN empty"},
		{"enabled", config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev/1"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uptraceDisabledReason(tc.cfg); got != tc.want {
				t.Fatalf("reason = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "oddspulse-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}
