package client

import (
	"context"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

func (c *Client) User(ctx context.Context, id string) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.getJSON(ctx, "users.get", c.resolve("user", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserProducts(ctx context.Context, id string) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.getJSON(ctx, "users.products", c.resolve("user", id, "products"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UsersWithProducts(ctx context.Context) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	if err := c.getJSON(ctx, "users.with_products", c.resolve("user", "with-products"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ChatPreviews(ctx context.Context) ([]domain.ChatPreview, error) {
	var out []domain.ChatPreview
	if err := c.getJSON(ctx, "chat.previews", c.resolve("chat"), &out); err != nil {
		return nil, err
	}
	return out, nil
}
