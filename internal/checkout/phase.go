package checkout

// Phase is one named state of the checkout flow.
type Phase string

const (
	PhaseEnteringAddress Phase = "ENTERING_ADDRESS"
	PhaseFetchingRates   Phase = "FETCHING_RATES"
	PhaseRateSelected    Phase = "RATE_SELECTED"
	PhasePaymentReady    Phase = "PAYMENT_READY"
	PhaseSubmitting      Phase = "SUBMITTING"
	PhaseSucceeded       Phase = "SUCCEEDED"
	PhaseFailed          Phase = "FAILED"
)

func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// String representation (for logging)
func (p Phase) String() string {
	return string(p)
}

// transitions is the full forward table. Editing the address is handled
// separately: every non-terminal phase may revert to ENTERING_ADDRESS.
var transitions = map[Phase][]Phase{
	PhaseEnteringAddress: {PhaseFetchingRates},
	PhaseFetchingRates:   {PhaseRateSelected},
	PhaseRateSelected:    {PhasePaymentReady, PhaseRateSelected},
	PhasePaymentReady:    {PhaseSubmitting, PhaseRateSelected},
	PhaseSubmitting:      {PhaseSucceeded, PhaseFailed, PhasePaymentReady},
}

// CanTransition reports whether moving from one phase to another is legal.
func CanTransition(from, to Phase) bool {
	if to == PhaseEnteringAddress {
		return !from.IsTerminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
