package domain

type GateDecision string

const (
	GateShowLogin GateDecision = "show_login"
	GateAdvance   GateDecision = "advance"
)

// Proceed decides whether "proceed to checkout" advances or asks the caller to sign in.
func Proceed(isAuthenticated, requireLoginToCheckout bool) GateDecision {
	if requireLoginToCheckout && !isAuthenticated {
		return GateShowLogin
	}
	return GateAdvance
}

// Navigate is the client route that matches the decision.
func (d GateDecision) Navigate() string {
	if d == GateShowLogin {
		return NavigateLogin
	}
	return NavigateCheckout
}
