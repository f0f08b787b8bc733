package shophub

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/shophub-client/internal/app"
	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/forms"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/views"
)

func newProductsCommand(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products and categories",
		RunE: action(opts, "shophub products", func(ctx context.Context, a *app.App) ([]string, error) {
			if category != "" {
				if err := visit(ctx, a, navigation.CategoryPath(category)); err != nil {
					return nil, err
				}
				view, _ := a.Catalog.Category(ctx, category)
				if view.Err != "" {
					return nil, errors.New(view.Err)
				}
				return productLines(view.Products), nil
			}
			if err := visit(ctx, a, navigation.LandingPath); err != nil {
				return nil, err
			}
			view := a.Catalog.Home(ctx)
			if view.Err != "" {
				return nil, errors.New(view.Err)
			}
			return append(categoryLines(view.Categories), productLines(view.Products)...), nil
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "only list products in this category")
	return cmd
}

func newProductCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return action(opts, "shophub product", func(ctx context.Context, a *app.App) ([]string, error) {
				if err := visit(ctx, a, navigation.ProductPath(id)); err != nil {
					return nil, err
				}
				view := a.Catalog.Product(ctx, id)
				if view.Err != "" {
					return nil, errors.New(view.Err)
				}
				p := view.Product
				lines := productLines([]domain.Product{*p})
				if p.Description != "" {
					lines = append(lines, p.Description)
				}
				return lines, nil
			})(cmd, args)
		},
	}
}

func newSearchCommand(opts *options) *cobra.Command {
	q := client.SearchQuery{PriceRange: domain.DefaultPriceRange()}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search products by text, category and price",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Query = args[0]
			}
			return action(opts, "shophub search", func(ctx context.Context, a *app.App) ([]string, error) {
				if err := visit(ctx, a, navigation.SearchPath); err != nil {
					return nil, err
				}
				view, _ := a.Catalog.Search(ctx, q)
				if view.Err != "" {
					return nil, errors.New(view.Err)
				}
				lines := []string{fmt.Sprintf("%d results", len(view.Results))}
				return append(lines, productLines(view.Results)...), nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "category filter")
	cmd.Flags().Float64Var(&q.PriceRange.Min, "min-price", q.PriceRange.Min, "minimum price")
	cmd.Flags().Float64Var(&q.PriceRange.Max, "max-price", q.PriceRange.Max, "maximum price")
	return cmd
}

func newUploadCommand(opts *options) *cobra.Command {
	var form forms.UploadForm
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "List a new product for sale",
		RunE: action(opts, "shophub upload", func(ctx context.Context, a *app.App) ([]string, error) {
			if err := visit(ctx, a, navigation.UploadPath); err != nil {
				return nil, err
			}
			res := a.Uploader.Upload(ctx, form)
			if err := res.Errors.Err(); err != nil {
				return nil, err
			}
			if res.Product == nil {
				return nil, errors.New(res.Message)
			}
			if res.Next != "" {
				_, _ = a.Navigator.Navigate(ctx, res.Next)
			}
			return []string{res.Message, "product id=" + res.Product.ID}, nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "product name")
	cmd.Flags().StringVar(&form.Price, "price", "", "product price")
	cmd.Flags().StringVar(&form.Category, "category", "", "product category")
	cmd.Flags().StringVar(&form.ImagePath, "image", "", "path to the product image")
	return cmd
}

func newCartCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Manage the cart counter"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId>",
			Short: "Add an in-stock product to the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				id := args[0]
				return action(opts, "shophub cart add", func(ctx context.Context, a *app.App) ([]string, error) {
					view := a.Catalog.Product(ctx, id)
					if view.Err != "" {
						return nil, errors.New(view.Err)
					}
					n, err := views.AddToCart(ctx, a.Session, view)
					if err != nil {
						return nil, err
					}
					return []string{fmt.Sprintf("cart=%d", n)}, nil
				})(c, args)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart counter",
			RunE: action(opts, "shophub cart show", func(ctx context.Context, a *app.App) ([]string, error) {
				if err := visit(ctx, a, navigation.CartPath); err != nil {
					return nil, err
				}
				return []string{fmt.Sprintf("cart=%d", views.CartOf(a.Session).Count)}, nil
			}),
		},
	)
	return cmd
}

func newThemeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "theme", Short: "Manage the colour theme"}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark mode",
		RunE: action(opts, "shophub theme toggle", func(ctx context.Context, a *app.App) ([]string, error) {
			dark, err := a.Session.ToggleTheme(ctx)
			if err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("dark_mode=%t", dark)}, nil
		}),
	})
	return cmd
}

func productLines(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		out = append(out, fmt.Sprintf("%s  %s  $%.2f  [%s] %s", p.ID, p.DisplayName(), p.Price, p.Category, stock))
	}
	return out
}

func categoryLines(categories []domain.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, "category: "+c.Name)
	}
	return out
}
