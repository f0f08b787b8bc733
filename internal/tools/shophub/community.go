package shophub

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/shophub-client/internal/app"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/tools/ui"
	"github.com/sandeepkv93/shophub-client/internal/views"
)

var errInteractiveOnly = errors.New("chat needs an interactive terminal; drop --ci")

func newProfileCommand(opts *options) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and listed products",
		RunE: action(opts, "shophub profile", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := visit(ctx, a, navigation.ProfilePath); err != nil {
				return nil, err
			}
			view := a.Community.Profile(ctx, page)
			if view.Err != "" {
				return nil, errors.New(view.Err)
			}
			lines := []string{fmt.Sprintf("%s <%s>", view.Name, view.Email)}
			lines = append(lines, productLines(view.Page.Items)...)
			return append(lines, view.Page.Label()), nil
		}),
	}
	cmd.Flags().IntVar(&page, "page", views.DefaultPage, "page of listed products")
	return cmd
}

func newSellersCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sellers",
		Short: "List sellers you can chat with",
		RunE: action(opts, "shophub sellers", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := visit(ctx, a, navigation.SellersPath); err != nil {
				return nil, err
			}
			view := a.Community.Sellers(ctx)
			if view.Err != "" {
				return nil, errors.New(view.Err)
			}
			lines := make([]string, 0, len(view.Sellers))
			for _, s := range view.Sellers {
				lines = append(lines, fmt.Sprintf("%s  %s  products=%d  %s", s.Seller.Identifier(), s.Seller.Name, len(s.Seller.Products), s.ChatPath))
			}
			return lines, nil
		}),
	}
}

func newChatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List your conversations",
		RunE: action(opts, "shophub chats", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := visit(ctx, a, navigation.ChatsPath); err != nil {
				return nil, err
			}
			view := a.Community.Chats(ctx)
			if view.Err != "" {
				return nil, errors.New(view.Err)
			}
			lines := make([]string, 0, len(view.Chats))
			for _, c := range view.Chats {
				lines = append(lines, fmt.Sprintf("%s  %s: %s  %s", c.Preview.ChatID, c.Preview.OtherUser.Name, c.Preview.LastMessage, c.ChatPath))
			}
			return lines, nil
		}),
	}
}

func newChatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <receiverId>",
		Short: "Open a live chat with another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ci {
				return errInteractiveOnly
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			_, err := withApp(ctx, opts, cmd.ErrOrStderr(), func(ctx context.Context, a *app.App) ([]string, error) {
				return nil, chatSession(ctx, a, args[0])
			})
			return err
		},
	}
}

func chatSession(ctx context.Context, a *app.App, peerID string) error {
	snap := a.Session.Snapshot()
	self := "guest"
	if snap.User != nil {
		self = snap.User.ID
	}
	if err := visit(ctx, a, navigation.ChatPath(self, peerID)); err != nil {
		return err
	}
	ch, conv, err := a.OpenChat(ctx, peerID)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	model := ui.NewChatModel(conv, ch, ch.Done(), "Chat with "+peerID, ui.Palette(snap.DarkMode), a.Logger)
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func newAdminCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Show the admin dashboard",
		RunE: action(opts, "shophub admin", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := visit(ctx, a, navigation.AdminPath); err != nil {
				return nil, err
			}
			s := views.AdminDashboard()
			lines := []string{
				fmt.Sprintf("total_sales=%d total_users=%d total_products=%d pending_orders=%d", s.TotalSales, s.TotalUsers, s.TotalProducts, s.PendingOrders),
			}
			for _, p := range s.MonthlySales {
				lines = append(lines, fmt.Sprintf("%s %d", p.Month, p.Sales))
			}
			for _, u := range s.RecentUsers {
				lines = append(lines, fmt.Sprintf("%d  %s  %s  %s", u.ID, u.Name, u.Role, u.Email))
			}
			return lines, nil
		}),
	}
}
