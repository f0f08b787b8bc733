package views

import (
	"context"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
)

type CatalogAPI interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	ProductsByCategory(ctx context.Context, name string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, q client.SearchQuery) ([]domain.Product, error)
}

type CommunityAPI interface {
	UserProducts(ctx context.Context, id string) (*domain.UserProfile, error)
	UsersWithProducts(ctx context.Context) ([]domain.UserProfile, error)
	ChatPreviews(ctx context.Context) ([]domain.ChatPreview, error)
}

type AccountAPI interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type UploadAPI interface {
	UploadProduct(ctx context.Context, up client.ProductUpload) (*domain.Product, error)
}

type Session interface {
	Snapshot() domain.Session
	Login(ctx context.Context, endpoint string, credentials any) error
	AddToCart(ctx context.Context, productID string) (int, error)
}
