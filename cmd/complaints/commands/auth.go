package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-complaints/internal/client/app"
	"github.com/noah-isme/campus-complaints/internal/models"
)

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var (
		id       string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a student or administrator",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			role := models.RoleStudent
			label := "Student ID"
			if admin {
				role = models.RoleAdmin
				label = "Admin ID"
			}
			if err := rt.dispatch(ctx, app.ActionSelectRole, app.Input{Role: role}); err != nil {
				return err
			}

			var err error
			if id, err = rt.ask(id, label); err != nil {
				return err
			}
			if password, err = rt.ask(password, "Password"); err != nil {
				return err
			}

			if err := rt.dispatch(ctx, app.ActionLogin, app.Input{Role: role, ID: id, Password: password}); err != nil {
				return err
			}
			return rt.portal()
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "student or admin id")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&admin, "admin", false, "use the administrator login")

	return cmd
}

func newRegisterCommand(opts *rootOptions) *cobra.Command {
	var in app.Input

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a student account",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.dispatch(ctx, app.ActionShowRegister, app.Input{}); err != nil {
				return err
			}

			var err error
			if in.Name, err = rt.ask(in.Name, "Full name"); err != nil {
				return err
			}
			if in.ID, err = rt.ask(in.ID, "Student ID"); err != nil {
				return err
			}
			if in.Password, err = rt.ask(in.Password, "Password"); err != nil {
				return err
			}
			if in.ConfirmPassword, err = rt.ask(in.ConfirmPassword, "Confirm password"); err != nil {
				return err
			}

			if err := rt.dispatch(ctx, app.ActionRegister, in); err != nil {
				return err
			}
			return rt.notice()
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.ID, "id", "", "student id")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation (prompted when omitted)")

	return cmd
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.dispatch(ctx, app.ActionLogout, app.Input{}); err != nil {
				return err
			}
			return rt.notice()
		}),
	}
}

func newWhoamiCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"status"},
		Short:   "Show the logged-in account",
		Args:    cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.start(ctx); err != nil {
				return err
			}
			state := rt.app.State()
			if !state.View.LoggedIn() {
				_, err := fmt.Fprintln(rt.out, "Not logged in")
				return err
			}
			_, err := fmt.Fprintf(rt.out, "%s\nRole: %s\nSession expires: %s\n",
				state.Welcome, state.Session.Role, state.Session.ExpiresAt.Local().Format("02/01/2006 15:04"))
			return err
		}),
	}
}
