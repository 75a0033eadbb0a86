package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserMessage carries a registration request through the command
// layer so back-office flows can dispatch it without touching the controller.
type RegisterUserMessage struct {
	Email             string `json:"email"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	Password          string `json:"password"`
	Phone             string `json:"phone"`
	PreferredLanguage string `json:"preferred_language"`
	OnResponse        func(Result)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	manager SessionManager
}

func NewRegisterUserHandler(manager SessionManager) *RegisterUserHandler {
	return &RegisterUserHandler{manager: manager}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	payload := RegisterPayload{
		Email:             event.Email,
		Username:          getUsername(event.Username, event.Email),
		FullName:          event.FullName,
		Password:          event.Password,
		Phone:             event.Phone,
		PreferredLanguage: event.PreferredLanguage,
	}

	result := h.manager.Register(ctx, payload)

	if event.OnResponse != nil {
		event.OnResponse(result)
	}

	if !result.Success {
		return goerrors.New(result.Message, goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
