package fluuyo

import "strings"

// GateKind selects which gate guards a route.
type GateKind int

const (
	// GateEntry resolves the role landing and never renders content.
	GateEntry GateKind = iota
	// GatePublicOnly renders only for anonymous sessions.
	GatePublicOnly
	// GateProtected renders only for authenticated sessions.
	GateProtected
)

// Route binds a path pattern to a screen behind a gate. Pattern segments
// starting with ':' match any single segment.
type Route struct {
	Pattern string
	Screen  string
	Gate    GateKind
}

// DefaultRoutes is the application's route table: the public auth screens,
// the customer area, and the admin area.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", Gate: GateEntry},

		{Pattern: "/login", Screen: "login", Gate: GatePublicOnly},
		{Pattern: "/register", Screen: "register", Gate: GatePublicOnly},
		{Pattern: "/resend-verification", Screen: "resend_verification", Gate: GatePublicOnly},
		{Pattern: "/verify-email", Screen: "verify_email", Gate: GatePublicOnly},
		{Pattern: "/forgot-password", Screen: "forgot_password", Gate: GatePublicOnly},
		{Pattern: "/reset-password", Screen: "reset_password", Gate: GatePublicOnly},

		{Pattern: "/app", Screen: "home", Gate: GateProtected},
		{Pattern: "/app/kyc", Screen: "kyc", Gate: GateProtected},
		{Pattern: "/app/loans/:id", Screen: "loan_detail", Gate: GateProtected},
		{Pattern: "/app/loans/:id/payments", Screen: "payment_schedule", Gate: GateProtected},
		{Pattern: "/app/loans/:id/payments/new", Screen: "payment_create", Gate: GateProtected},
		{Pattern: "/app/loans/:id/payments/:paymentId", Screen: "payment_detail", Gate: GateProtected},

		{Pattern: "/admin", Screen: "admin_dashboard", Gate: GateProtected},
		{Pattern: "/admin/users", Screen: "admin_users", Gate: GateProtected},
		{Pattern: "/admin/users/:id", Screen: "admin_user_detail", Gate: GateProtected},
		{Pattern: "/admin/loans", Screen: "admin_loans", Gate: GateProtected},
		{Pattern: "/admin/loans/:id", Screen: "admin_loan_detail", Gate: GateProtected},
		{Pattern: "/admin/loans/:id/payments", Screen: "admin_loan_payments", Gate: GateProtected},
		{Pattern: "/admin/credits", Screen: "admin_credits", Gate: GateProtected},
		{Pattern: "/admin/credits/:userId", Screen: "admin_credit_detail", Gate: GateProtected},
		{Pattern: "/admin/credits/:userId/loans", Screen: "admin_credit_loans", Gate: GateProtected},
		{Pattern: "/admin/kyc", Screen: "admin_kyc", Gate: GateProtected},
		{Pattern: "/admin/kyc/:userId", Screen: "admin_kyc_user", Gate: GateProtected},
	}
}

// Resolution is the shell's answer for a navigation: render Screen, show
// the loading placeholder, or redirect to Target.
type Resolution struct {
	Decision Decision
	Screen   string
	Target   string
}

// Resolve matches path against the route table and applies the route's
// gate to the current session state. Unknown paths redirect to the entry
// route.
func (c *Client) Resolve(path string) Resolution {
	state := c.Session()
	route, ok := matchRoute(c.routes, path)
	if !ok {
		return Resolution{Decision: DecisionRedirect, Target: RouteEntry}
	}

	var result GateResult
	switch route.Gate {
	case GatePublicOnly:
		result = EvaluatePublicOnly(state)
	case GateProtected:
		result = EvaluateProtected(state)
	default:
		result = EvaluateEntry(state)
	}

	switch result.Decision {
	case DecisionRender:
		return Resolution{Decision: DecisionRender, Screen: route.Screen}
	case DecisionRedirect:
		return Resolution{Decision: DecisionRedirect, Target: result.Target}
	default:
		return Resolution{Decision: DecisionLoading}
	}
}

func matchRoute(routes []Route, path string) (Route, bool) {
	segments := splitPath(path)
	for _, route := range routes {
		if matchPattern(splitPath(route.Pattern), segments) {
			return route, true
		}
	}
	return Route{}, false
}

func matchPattern(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, part := range pattern {
		if strings.HasPrefix(part, ":") {
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
