package market

import "testing"

func TestOutcomeFromResult(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		price  float64
		want   Outcome
	}{
		{name: "won", status: 3, price: 1, want: OutcomeWin},
		{name: "won with wrong price", status: 3, price: 0, want: OutcomeUnknown},
		{name: "lost", status: 4, price: 0, want: OutcomeLoss},
		{name: "lost with wrong price", status: 4, price: 1, want: OutcomeUnknown},
		{name: "pending", status: 0, price: 0, want: OutcomeToResolve},
		{name: "voided", status: 5, price: 0, want: OutcomeVoid},
		{name: "unmapped status", status: 7, price: 1, want: OutcomeUnknown},
		{name: "negative status", status: -1, price: 0, want: OutcomeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := OutcomeFromResult(tc.status, tc.price); got != tc.want {
				t.Fatalf("OutcomeFromResult(%d, %v) = %q, want %q", tc.status, tc.price, got, tc.want)
			}
		})
	}
}

func TestOutcomeScored(t *testing.T) {
	t.Parallel()

	scored := map[Outcome]bool{
		OutcomeWin:       true,
		OutcomeLoss:      true,
		OutcomeUnset:     false,
		OutcomeToResolve: false,
		OutcomeVoid:      false,
		OutcomeUnknown:   false,
	}
	for outcome, want := range scored {
		if got := outcome.Scored(); got != want {
			t.Fatalf("%q.Scored() = %v, want %v", outcome, got, want)
		}
	}
}
