package shophub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/shophub-client/internal/app"
	"github.com/sandeepkv93/shophub-client/internal/config"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/tools/common"
	"github.com/sandeepkv93/shophub-client/internal/tools/ui"
)

var ErrSignInRequired = errors.New("sign in required")

type options struct {
	apiURL  string
	chatURL string
	ci      bool
	verbose bool
	timeout time.Duration

	loadConfig func() (*config.Config, error)
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{loadConfig: config.Load})
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shophub",
		Short:         "Browse, sell and chat on the ShopHub storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "REST API base URL (overrides SHOPHUB_API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.chatURL, "chat-url", "", "chat websocket URL (overrides SHOPHUB_CHAT_URL)")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write logs to stderr")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall timeout for one-shot commands, with or without --ci")

	cmd.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newForgotPasswordCommand(opts),
		newResetPasswordCommand(opts),
		newProductsCommand(opts),
		newProductCommand(opts),
		newSearchCommand(opts),
		newUploadCommand(opts),
		newCartCommand(opts),
		newThemeCommand(opts),
		newProfileCommand(opts),
		newSellersCommand(opts),
		newChatsCommand(opts),
		newChatCommand(opts),
		newAdminCommand(opts),
	)
	return cmd
}

// action runs fn against a bootstrapped app, as a spinner in a terminal or
// as a single JSON line with --ci.
func action(opts *options, title string, fn func(context.Context, *app.App) ([]string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		work := func(ctx context.Context) ([]string, error) {
			return withApp(ctx, opts, cmd.ErrOrStderr(), fn)
		}
		details, err := run(opts, title, work)
		if opts.ci {
			common.WriteCIResult(cmd.OutOrStdout(), err == nil, title, details, err)
		}
		return err
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	if opts.ci {
		return fn(ctx)
	}
	return ui.Run(ctx, title, fn)
}

func withApp(ctx context.Context, opts *options, stderr io.Writer, fn func(context.Context, *app.App) ([]string, error)) ([]string, error) {
	a, cleanup, err := buildApp(ctx, opts, stderr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	snap := a.Session.Bootstrap(ctx)
	ui.UseDarkMode(ctx, snap.DarkMode)
	return fn(ctx, a)
}

func buildApp(ctx context.Context, opts *options, stderr io.Writer) (*app.App, func(), error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if opts.chatURL != "" {
		cfg.ChatURL = opts.chatURL
	}
	var logOut io.Writer = io.Discard
	if opts.verbose {
		logOut = stderr
	}
	return app.Initialize(ctx, cfg, logOut)
}

// visit pushes path through the navigator and fails when the guard sends
// the user to the entry view instead.
func visit(ctx context.Context, a *app.App, path string) error {
	res, err := a.Navigator.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if res.Decision.State == navigation.Denied {
		return fmt.Errorf("%w: redirected to %s from %s", ErrSignInRequired, res.Decision.RedirectTo, res.Decision.From)
	}
	return nil
}

func Execute() int {
	if err := common.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 4
	}
	return 0
}
