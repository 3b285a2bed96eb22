package app

import (
	"context"
	"fmt"

	"github.com/noah-isme/campus-complaints/internal/client/api"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// Action names a user interaction.
type Action string

const (
	ActionShowRegister Action = "show-register"
	ActionShowLogin    Action = "show-login"
	ActionSelectRole   Action = "select-role"
	ActionLogin        Action = "login"
	ActionRegister     Action = "register"
	ActionLogout       Action = "logout"
	ActionSubmit       Action = "submit"
	ActionRefresh      Action = "refresh"
	ActionResolve      Action = "resolve"
	ActionFilter       Action = "filter"
)

// Input carries the form fields an action reads. Unused fields are ignored.
type Input struct {
	Role            models.Role
	ID              string
	Name            string
	Password        string
	ConfirmPassword string
	Category        string
	Description     string
	ComplaintID     int
	Status          string
}

// Handler runs one action.
type Handler func(ctx context.Context, in Input) error

func (a *App) bindingTable() map[Action]Handler {
	return map[Action]Handler{
		ActionShowRegister: func(context.Context, Input) error { return a.ShowRegister() },
		ActionShowLogin:    func(context.Context, Input) error { return a.ShowLogin() },
		ActionSelectRole:   func(_ context.Context, in Input) error { return a.SelectLoginRole(in.Role) },
		ActionLogin: func(ctx context.Context, in Input) error {
			return a.Login(ctx, in.Role, in.ID, in.Password)
		},
		ActionRegister: func(ctx context.Context, in Input) error {
			return a.Register(ctx, api.RegisterInput{
				Name:            in.Name,
				ID:              in.ID,
				Password:        in.Password,
				ConfirmPassword: in.ConfirmPassword,
			})
		},
		ActionLogout:  func(context.Context, Input) error { return a.Logout() },
		ActionRefresh: func(ctx context.Context, _ Input) error { return a.Refresh(ctx) },
		ActionSubmit: func(ctx context.Context, in Input) error {
			return a.Submit(ctx, in.Name, in.Category, in.Description)
		},
		ActionResolve: func(ctx context.Context, in Input) error { return a.Resolve(ctx, in.ComplaintID) },
		ActionFilter:  func(_ context.Context, in Input) error { return a.SetFilters(in.Status, in.Category) },
	}
}

// Dispatch looks up the handler bound to action and runs it.
func (a *App) Dispatch(ctx context.Context, action Action, in Input) error {
	h, ok := a.bindings[action]
	if !ok {
		return a.fail(appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown action %q", action)))
	}
	return h(ctx, in)
}

// Actions lists the bound actions.
func (a *App) Actions() []Action {
	out := make([]Action, 0, len(a.bindings))
	for action := range a.bindings {
		out = append(out, action)
	}
	return out
}
