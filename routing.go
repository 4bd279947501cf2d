package fluuyo

import "github.com/fluuyo/fluuyo-go/api"

// Well-known routes.
const (
	// RouteEntry resolves to the role-appropriate landing on navigation.
	RouteEntry = "/"
	// RouteLogin is the anonymous landing route.
	RouteLogin = "/login"
	// RouteCustomerHome is the CUSTOMER landing route.
	RouteCustomerHome = "/app"
	// RouteAdminHome is the ADMIN and OPERATOR landing route.
	RouteAdminHome = "/admin"
)

// RouteFor maps a user record to its landing route. Pure and total: a nil
// user, a non-active account, or an unrecognized role all land on login —
// a session backed by a record the backend no longer honors is treated as
// no session at all.
func RouteFor(user *api.User) string {
	if user == nil {
		return RouteLogin
	}
	if user.Status != api.StatusActive {
		return RouteLogin
	}
	switch user.Role {
	case api.RoleAdmin, api.RoleOperator:
		return RouteAdminHome
	case api.RoleCustomer:
		return RouteCustomerHome
	default:
		return RouteLogin
	}
}

// Decision is the outcome of a routing gate.
type Decision int

const (
	// DecisionLoading renders a neutral placeholder while the session is
	// still booting; no redirect happens before the restore settles.
	DecisionLoading Decision = iota
	// DecisionRender shows the gated content.
	DecisionRender
	// DecisionRedirect navigates to GateResult.Target instead.
	DecisionRedirect
)

// GateResult is a gate's verdict for the current session state.
type GateResult struct {
	Decision Decision
	// Target is set only for DecisionRedirect.
	Target string
}

// EvaluateProtected gates authenticated-only content: loading while
// booting, login when anonymous, render otherwise.
func EvaluateProtected(s SessionState) GateResult {
	if s.Booting {
		return GateResult{Decision: DecisionLoading}
	}
	if !s.Authenticated() {
		return GateResult{Decision: DecisionRedirect, Target: RouteLogin}
	}
	return GateResult{Decision: DecisionRender}
}

// EvaluatePublicOnly gates anonymous-only content (login, register, the
// recovery screens): loading while booting, render when anonymous,
// otherwise redirect to the role landing.
func EvaluatePublicOnly(s SessionState) GateResult {
	if s.Booting {
		return GateResult{Decision: DecisionLoading}
	}
	if !s.Authenticated() {
		return GateResult{Decision: DecisionRender}
	}
	return GateResult{Decision: DecisionRedirect, Target: RouteFor(s.User)}
}

// EvaluateEntry resolves the root route: loading while booting, login when
// anonymous, otherwise the role landing.
func EvaluateEntry(s SessionState) GateResult {
	if s.Booting {
		return GateResult{Decision: DecisionLoading}
	}
	if !s.Authenticated() {
		return GateResult{Decision: DecisionRedirect, Target: RouteLogin}
	}
	return GateResult{Decision: DecisionRedirect, Target: RouteFor(s.User)}
}
