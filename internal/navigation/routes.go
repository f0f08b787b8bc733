package navigation

import (
	"strings"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

const (
	LandingPath        = "/"
	EntryPath          = "/auth"
	ForgotPasswordPath = "/forgot-password"
	ResetPasswordPath  = "/reset-password"
	CartPath           = "/cart"
	ProfilePath        = "/profile"
	UploadPath         = "/upload-product"
	ChatsPath          = "/chats"
	SellersPath        = "/users/with-products"
	AdminPath          = "/admin"
	SearchPath         = "/search"
)

type Route struct {
	Name      string
	Pattern   string
	Protected bool
	Roles     []domain.Role
}

func DefaultRoutes() []Route {
	return []Route{
		{Name: "home", Pattern: LandingPath},
		{Name: "auth", Pattern: EntryPath},
		{Name: "forgot-password", Pattern: ForgotPasswordPath},
		{Name: "reset-password", Pattern: ResetPasswordPath},
		{Name: "category", Pattern: "/category/:name"},
		{Name: "product", Pattern: "/product/:id"},
		{Name: "search", Pattern: SearchPath},
		{Name: "cart", Pattern: CartPath, Protected: true},
		{Name: "profile", Pattern: ProfilePath, Protected: true},
		{Name: "upload", Pattern: UploadPath, Protected: true, Roles: []domain.Role{domain.RoleSeller, domain.RoleAdmin}},
		{Name: "chats", Pattern: ChatsPath, Protected: true},
		{Name: "chat", Pattern: "/chat/:senderId/:receiverId", Protected: true},
		{Name: "sellers", Pattern: SellersPath, Protected: true},
		{Name: "admin", Pattern: AdminPath, Protected: true, Roles: []domain.Role{domain.RoleAdmin}},
	}
}

// Match reports whether path fits the pattern and returns its parameters.
func (r Route) Match(path string) (map[string]string, bool) {
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			if got[i] == "" {
				return nil, false
			}
			params[seg[1:]] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func ChatPath(senderID, receiverID string) string {
	return "/chat/" + senderID + "/" + receiverID
}

func CategoryPath(name string) string { return "/category/" + name }

func ProductPath(id string) string { return "/product/" + id }
