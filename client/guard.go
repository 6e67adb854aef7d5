package client

import "github.com/votesecure/platform/types"

// View identifies one screen of the application.
type View string

const (
	ViewLanding   View = "landing"
	ViewLogin     View = "login"
	ViewSignup    View = "signup"
	ViewNotFound  View = "not-found"
	ViewDashboard View = "dashboard"
	ViewProfile   View = "profile"
	ViewBallot    View = "ballot"
	ViewAdmin     View = "admin"
)

// LoginPath is where unauthorized navigations are redirected.
const LoginPath = "/login"

// publicViews need no session at all.
var publicViews = map[View]bool{
	ViewLanding:  true,
	ViewLogin:    true,
	ViewSignup:   true,
	ViewNotFound: true,
}

// requiredRole maps views that additionally demand a specific role.
var requiredRole = map[View]string{
	ViewBallot: types.RoleUser,
	ViewAdmin:  types.RoleAdmin,
}

// Decision is the outcome of a single navigation check: either render the
// view, or redirect. Evaluated once per navigation.
type Decision struct {
	Authorized bool
	RedirectTo string
}

// NavLink is one entry in the navigation chrome.
type NavLink struct {
	Label string
	Path  string
}

// Chrome is the navigation shell around the routed view.
type Chrome struct {
	Authenticated bool
	Links         []NavLink
}

// Guard selects the navigation chrome and performs the per-view access
// check. The chrome selection is cosmetic; Authorize is re-run by every
// protected view on mount, and the backend independently re-validates role
// and token on every call regardless.
type Guard struct {
	sessions *SessionStore
}

func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{sessions: sessions}
}

// Chrome returns the navigation shell for the current session: anonymous
// links when logged out, role-specific links when logged in.
func (g *Guard) Chrome() Chrome {
	user, ok := g.sessions.CurrentUser()
	if !ok {
		return Chrome{Links: []NavLink{
			{Label: "Home", Path: "/"},
			{Label: "Login", Path: "/login"},
			{Label: "Sign Up", Path: "/signup"},
		}}
	}

	links := []NavLink{
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "Profile", Path: "/profile"},
	}
	if user.IsAdmin() {
		links = append(links, NavLink{Label: "Admin Panel", Path: "/admin"})
	}
	return Chrome{Authenticated: true, Links: links}
}

// Authorize checks whether the current session may render the view. Public
// views always pass; protected views require a session, and the ballot and
// admin views require the matching role.
func (g *Guard) Authorize(view View) Decision {
	if publicViews[view] {
		return Decision{Authorized: true}
	}

	user, ok := g.sessions.CurrentUser()
	if !ok {
		return Decision{RedirectTo: LoginPath}
	}

	if role, gated := requiredRole[view]; gated && user.Role != role {
		return Decision{RedirectTo: LoginPath}
	}

	return Decision{Authorized: true}
}
