package auth

// IntentKind tags the navigation intent the admin gate resolves to.
type IntentKind int

const (
	// IntentStay renders the current route
	IntentStay IntentKind = iota
	// IntentLoading renders a loading indicator without redirecting
	IntentLoading
	// IntentRedirect navigates to Intent.Target
	IntentRedirect
)

// Intent is the pure routing decision for an admin-area request. The actual
// navigation side effect is executed once by the router adapter, keeping the
// decision unit-testable.
type Intent struct {
	Kind   IntentKind
	Target string
}

func stay() Intent            { return Intent{Kind: IntentStay} }
func showLoading() Intent     { return Intent{Kind: IntentLoading} }
func redirect(to string) Intent { return Intent{Kind: IntentRedirect, Target: to} }

// AdminGate protects the admin section of the site. Routes in the public
// allow-list (the admin sign-in and sign-up pages) render without any auth
// check; everything else requires a resolved admin session.
type AdminGate struct {
	signInRoute  string
	siteRoot     string
	publicRoutes []string
}

// NewAdminGate builds a gate from config, falling back to the conventional
// astro-site admin routes.
func NewAdminGate(cfg Config) *AdminGate {
	gate := &AdminGate{
		signInRoute:  "/admin/signin",
		siteRoot:     "/",
		publicRoutes: []string{"/admin/signin", "/admin/signup"},
	}

	if cfg == nil {
		return gate
	}

	if route := cfg.GetSignInRoute(); route != "" {
		gate.signInRoute = route
	}
	if root := cfg.GetSiteRoot(); root != "" {
		gate.siteRoot = root
	}
	if routes := cfg.GetPublicAdminRoutes(); len(routes) > 0 {
		gate.publicRoutes = routes
	}

	return gate
}

// Resolve maps (session, loading, route) to a navigation intent:
//   - public admin routes render immediately, regardless of session state
//   - while loading, show the indicator and never redirect
//   - resolved and unauthenticated redirects to the sign-in route, unless
//     already there (redirect-loop guard)
//   - resolved, authenticated, non-admin redirects to the site root
//   - resolved admins stay
func (g *AdminGate) Resolve(session Session, loading bool, route string) Intent {
	if g.isPublic(route) {
		return stay()
	}

	if loading {
		return showLoading()
	}

	if !session.IsAuthenticated() {
		if route == g.signInRoute {
			return stay()
		}
		return redirect(g.signInRoute)
	}

	if !session.IsAdmin() {
		// Cannot be on a public route here, but guard anyway.
		if g.isPublic(route) {
			return stay()
		}
		return redirect(g.siteRoot)
	}

	return stay()
}

func (g *AdminGate) isPublic(route string) bool {
	for _, public := range g.publicRoutes {
		if route == public {
			return true
		}
	}
	return false
}
