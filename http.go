package auth

import (
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// GuardViews names the built-in views the guard middleware renders.
type GuardViews struct {
	Loading string
	SignIn  string
	Denied  string
}

// RouteGuard adapts the pure Guard and AdminGate decisions to HTTP routing.
// It reads the Manager on every request and renders or redirects according to
// the decision; the decisions themselves stay side-effect free.
type RouteGuard struct {
	manager      SessionManager
	cfg          Config
	gate         *AdminGate
	Views        *GuardViews
	SessionKey   string
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteGuard returns a RouteGuard wired to the given manager.
func NewRouteGuard(manager SessionManager, cfg Config) *RouteGuard {
	rg := &RouteGuard{
		manager:    manager,
		cfg:        cfg,
		gate:       NewAdminGate(cfg),
		SessionKey: RouterSessionKey,
		Logger:     defLogger{},
		Views: &GuardViews{
			Loading: "auth/loading",
			SignIn:  "auth/signin",
			Denied:  "auth/denied",
		},
	}

	rg.ErrorHandler = rg.defaultErrHandler

	return rg
}

func (rg *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	rg.Logger = logger
	return rg
}

// Protected gates a content route on the session. A nil fallback renders the
// built-in sign-in prompt; the denied view ignores the fallback on purpose.
func (rg *RouteGuard) Protected(guard Guard, fallback router.HandlerFunc) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			session := rg.expose(ctx)

			switch guard.Evaluate(session, rg.manager.Loading()) {
			case DecisionLoading:
				return ctx.Render(rg.Views.Loading, router.ViewContext{})

			case DecisionFallback:
				if fallback != nil {
					return fallback(ctx)
				}
				rg.SetRedirect(ctx)
				return ctx.Status(http.StatusUnauthorized).Render(rg.Views.SignIn, router.ViewContext{
					"sign_in_route":  rg.cfg.GetSignInRoute(),
					"register_route": rg.cfg.GetRegisterRoute(),
					"back":           string(ctx.Referer()),
				})

			case DecisionDenied:
				rg.Logger.Info("access denied", "path", ctx.Path(), "user", session.User.Username)
				return ctx.Status(http.StatusForbidden).Render(rg.Views.Denied, router.ViewContext{
					"back": string(ctx.Referer()),
				})

			default:
				return next(ctx)
			}
		}
	}
}

// AdminShell protects the whole admin section, executing the gate's
// navigation intent. Public admin routes (sign-in, sign-up) pass through
// without an auth check.
func (rg *RouteGuard) AdminShell() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			session := rg.expose(ctx)
			intent := rg.gate.Resolve(session, rg.manager.Loading(), ctx.Path())

			switch intent.Kind {
			case IntentLoading:
				return ctx.Render(rg.Views.Loading, router.ViewContext{})

			case IntentRedirect:
				rg.Logger.Info("admin gate redirect", "from", ctx.Path(), "to", intent.Target)
				if intent.Target == rg.gate.signInRoute {
					rg.SetRedirect(ctx)
				}
				statusCode := http.StatusSeeOther
				if ctx.Method() == string(router.GET) {
					statusCode = http.StatusFound
				}
				return ctx.Redirect(intent.Target, statusCode)

			default:
				return next(ctx)
			}
		}
	}
}

// expose snapshots the session into the router locals and the request
// context so handlers and templates downstream can read it.
func (rg *RouteGuard) expose(ctx router.Context) Session {
	session := rg.manager.Current()
	ctx.Locals(rg.SessionKey, session)
	if session.User != nil {
		ctx.SetContext(WithContext(WithSessionContext(ctx.Context(), session), session.User))
	}
	return session
}

// SetRedirect remembers the rejected route so a later sign-in can return the
// visitor to where they were headed.
func (rg *RouteGuard) SetRedirect(ctx router.Context) {
	rg.Logger.Debug("Setting redirect cookie", "key", rejectedRouteKey, "path", ctx.OriginalURL())

	ctx.Cookie(&router.Cookie{
		Name:     rejectedRouteKey,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect returns the remembered rejected route, or def when none is set,
// clearing the cookie either way.
func (rg *RouteGuard) GetRedirect(ctx router.Context, def ...string) string {
	r := ctx.Cookies(rejectedRouteKey)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return rg.gate.siteRoot
	}
	rg.cookieDel(ctx, rejectedRouteKey)
	return r
}

const rejectedRouteKey = "astro_rejected_route"

func (rg *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (rg *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	rg.Logger.Info(
		"Guard error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.Status(richErr.Code).Render("errors/500", router.ViewContext{
		"error": richErr,
	})
}
