package shophub

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/shophub-client/internal/app"
	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/forms"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/views"
)

func newLoginCommand(opts *options) *cobra.Command {
	var (
		register bool
		google   bool
		form     forms.AuthForm
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in or create an account",
	}
	cmd.Flags().BoolVar(&register, "register", false, "create a new account")
	cmd.Flags().BoolVar(&google, "google", false, "sign in with Google in the browser")
	cmd.Flags().StringVar(&form.Name, "name", "", "display name (register only)")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (register only)")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		if google {
			return action(opts, "shophub login --google", func(ctx context.Context, a *app.App) ([]string, error) {
				snap, err := a.SignInWithGoogle(ctx, func(url string) error {
					_, err := fmt.Fprintln(c.ErrOrStderr(), "Open this URL to continue:", url)
					return err
				})
				if err != nil {
					return nil, err
				}
				return append([]string{signedInAs(snap)}, resume(ctx, a)...), nil
			})(c, args)
		}
		mode := forms.ModeLogin
		if register {
			mode = forms.ModeRegister
		}
		return action(opts, "shophub login", func(ctx context.Context, a *app.App) ([]string, error) {
			res := a.Account.SubmitAuth(ctx, mode, form)
			if !res.LoggedIn {
				if err := res.Errors.Err(); err != nil {
					return nil, err
				}
				return nil, errors.New(forms.MsgGeneric)
			}
			return append([]string{signedInAs(a.Session.Snapshot())}, resume(ctx, a)...), nil
		})(c, args)
	}
	return cmd
}

// resume follows the location an earlier command was denied, if any.
func resume(ctx context.Context, a *app.App) []string {
	to := a.Navigator.ReturnTo(ctx)
	if to == navigation.LandingPath {
		return nil
	}
	if err := visit(ctx, a, to); err != nil {
		return nil
	}
	return []string{"returning to " + to}
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: action(opts, "shophub logout", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := a.Session.Logout(ctx); err != nil {
				return nil, err
			}
			return []string{"signed out"}, nil
		}),
	}
}

func newWhoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: action(opts, "shophub whoami", func(_ context.Context, a *app.App) ([]string, error) {
			snap := a.Session.Snapshot()
			if !snap.IsLoggedIn {
				return []string{"not signed in"}, nil
			}
			return []string{
				signedInAs(snap),
				fmt.Sprintf("role=%s cart=%d dark_mode=%t", snap.User.Role, snap.CartCount, snap.DarkMode),
			}, nil
		}),
	}
}

func newForgotPasswordCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		RunE: action(opts, "shophub forgot-password", func(ctx context.Context, a *app.App) ([]string, error) {
			return formOutcome(a.Account.ForgotPassword(ctx, email))
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newResetPasswordCommand(opts *options) *cobra.Command {
	var token, password, confirm string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		RunE: action(opts, "shophub reset-password", func(ctx context.Context, a *app.App) ([]string, error) {
			return formOutcome(a.Account.ResetPassword(ctx, token, password, confirm))
		}),
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the email link")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "new password confirmation")
	return cmd
}

func signedInAs(s domain.Session) string {
	if s.User == nil {
		return "signed in"
	}
	return fmt.Sprintf("signed in as %s <%s>", s.User.Name, s.User.Email)
}

func formOutcome(res views.FormResult) ([]string, error) {
	if err := res.Errors.Err(); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.New(res.Err)
	}
	return []string{res.Message}, nil
}
