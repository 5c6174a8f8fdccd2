package market

type Outcome string

const (
	OutcomeUnset     Outcome = ""
	OutcomeWin       Outcome = "WIN"
	OutcomeLoss      Outcome = "LOSS"
	OutcomeToResolve Outcome = "TO_RESOLVE"
	OutcomeVoid      Outcome = "VOID"
	OutcomeUnknown   Outcome = "UNKNOWN"
)

// Scored reports whether the outcome contributes to tipster statistics.
func (o Outcome) Scored() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// OutcomeFromResult maps a provider result tuple to an outcome. Any
// combination outside the known ones resolves to UNKNOWN.
func OutcomeFromResult(status int, price float64) Outcome {
	switch {
	case status == 3 && price == 1:
		return OutcomeWin
	case status == 4 && price == 0:
		return OutcomeLoss
	case status == 0:
		return OutcomeToResolve
	case status == 5:
		return OutcomeVoid
	default:
		return OutcomeUnknown
	}
}
