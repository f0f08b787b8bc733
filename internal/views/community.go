package views

import (
	"context"
	"log/slog"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
)

const (
	MsgNoUser        = "No user data available"
	MsgSellersFailed = "Failed to load sellers"
	MsgChatsFailed   = "Failed to fetch chats"
)

type ProfileView struct {
	Name  string
	Email string
	Page  PageResult[domain.Product]
	Err   string
}

type SellerEntry struct {
	Seller   domain.UserProfile
	ChatPath string
}

type SellersView struct {
	Sellers []SellerEntry
	Err     string
}

type ChatEntry struct {
	Preview  domain.ChatPreview
	ChatPath string
}

type ChatsView struct {
	Chats []ChatEntry
	Err   string
}

// Community backs the profile, sellers and chats list views.
type Community struct {
	api     CommunityAPI
	session Session
	logger  *slog.Logger
}

func NewCommunity(api CommunityAPI, session Session, logger *slog.Logger) *Community {
	if logger == nil {
		logger = slog.Default()
	}
	return &Community{api: api, session: session, logger: logger}
}

func (c *Community) Profile(ctx context.Context, page int) ProfileView {
	snap := c.session.Snapshot()
	if snap.User == nil || snap.User.ID == "" {
		return ProfileView{Err: MsgNoUser}
	}
	profile, err := c.api.UserProducts(ctx, snap.User.ID)
	if err != nil {
		c.logger.ErrorContext(ctx, "load profile failed", "user_id", snap.User.ID, "error", err)
		return ProfileView{Err: MsgNoUser}
	}
	return ProfileView{
		Name:  profile.Name,
		Email: profile.Email,
		Page:  Paginate(profile.Products, PageRequest{Page: page, PageSize: DefaultPageSize}),
	}
}

// Sellers lists users with products; each entry opens a chat from the
// current user to the seller.
func (c *Community) Sellers(ctx context.Context) SellersView {
	users, err := c.api.UsersWithProducts(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "load sellers failed", "error", err)
		return SellersView{Err: MsgSellersFailed}
	}
	me := ""
	if snap := c.session.Snapshot(); snap.User != nil {
		me = snap.User.ID
	}
	out := SellersView{Sellers: make([]SellerEntry, 0, len(users))}
	for _, u := range users {
		out.Sellers = append(out.Sellers, SellerEntry{Seller: u, ChatPath: navigation.ChatPath(me, u.Identifier())})
	}
	return out
}

func (c *Community) Chats(ctx context.Context) ChatsView {
	previews, err := c.api.ChatPreviews(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "load chats failed", "error", err)
		return ChatsView{Err: MsgChatsFailed}
	}
	out := ChatsView{Chats: make([]ChatEntry, 0, len(previews))}
	for _, p := range previews {
		out.Chats = append(out.Chats, ChatEntry{Preview: p, ChatPath: navigation.ChatPath(p.BuyerID, p.SellerID)})
	}
	return out
}
