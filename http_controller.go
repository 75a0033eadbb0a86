package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// SessionControllerRoutes are the paths the controller mounts.
type SessionControllerRoutes struct {
	SignIn   string
	SignOut  string
	Register string
}

// SessionControllerViews are the template names the controller renders.
type SessionControllerViews struct {
	SignIn   string
	Register string
}

// SessionController serves the sign-in/sign-out/register forms over the
// Manager. It is view glue: every outcome it renders comes from a Result.
type SessionController struct {
	Debug        bool
	Logger       Logger
	Manager      SessionManager
	Guard        *RouteGuard
	Routes       *SessionControllerRoutes
	Views        *SessionControllerViews
	ErrorHandler router.ErrorHandler
}

type SessionControllerOption func(*SessionController) *SessionController

func WithControllerManager(manager SessionManager) SessionControllerOption {
	return func(c *SessionController) *SessionController {
		c.Manager = manager
		return c
	}
}

func WithControllerGuard(guard *RouteGuard) SessionControllerOption {
	return func(c *SessionController) *SessionController {
		c.Guard = guard
		return c
	}
}

func WithControllerLogger(logger Logger) SessionControllerOption {
	return func(c *SessionController) *SessionController {
		c.Logger = logger
		return c
	}
}

func NewSessionController(opts ...SessionControllerOption) *SessionController {
	c := &SessionController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &SessionControllerRoutes{
			SignIn:   "/admin/signin",
			SignOut:  "/admin/signout",
			Register: "/admin/signup",
		},
		Views: &SessionControllerViews{
			SignIn:   "auth/signin",
			Register: "auth/signup",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Manager == nil {
		panic("Missing SessionManager in session controller...")
	}

	return c
}

// RegisterSessionRoutes mounts the sign-in/sign-out/register routes.
func RegisterSessionRoutes[T any](app router.Router[T], opts ...SessionControllerOption) {
	controller := NewSessionController(opts...)

	app.
		Get(controller.Routes.SignIn, controller.SignInShow).
		SetName("sign-in.get")

	app.
		Post(controller.Routes.SignIn, controller.SignInPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.SignOut, controller.SignOut).SetName("sign-out.get")

	app.Get(controller.Routes.Register, controller.RegisterShow).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("register.post")
}

func (a *SessionController) SignInShow(ctx router.Context) error {
	return ctx.Render(a.Views.SignIn, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// SignInRequest payload. Credential format is not validated here; the remote
// API is the authority on what a valid username looks like.
type SignInRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *SessionController) SignInPost(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.SignIn, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	result := a.Manager.Login(ctx.Context(), payload.Username, payload.Password)
	if !result.Success {
		return ctx.Render(a.Views.SignIn, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": result.Message},
		})
	}

	redirect := "/"
	if a.Guard != nil {
		redirect = a.Guard.GetRedirect(ctx, "/")
	}

	return ctx.Redirect(redirect, fiber.StatusSeeOther)
}

func (a *SessionController) SignOut(ctx router.Context) error {
	a.Manager.Logout()
	return ctx.Redirect("/", fiber.StatusTemporaryRedirect)
}

func (a *SessionController) RegisterShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegisterPayload{},
	})
}

func (a *SessionController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		})
	}

	result := a.Manager.Register(ctx.Context(), *payload)
	if !result.Success {
		a.Logger.Error("register user", "error", result.Message)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  result.Message,
			"system_message": "Registration failed",
		}).Render(a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"registration": result.Message},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": result.Message,
	}).Redirect(a.Routes.SignIn, fiber.StatusSeeOther)
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
