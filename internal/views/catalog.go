package views

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
)

const (
	MsgProductsFailed = "Failed to load products"
	MsgCategoryFailed = "Failed to load products for this category"
	MsgProductFailed  = "Failed to fetch product data"
)

const (
	keyCategory = "category"
	keySearch   = "search"
)

type HomeView struct {
	Products   []domain.Product
	Categories []domain.Category
	Err        string
}

type CategoryView struct {
	Name     string
	Products []domain.Product
	Err      string
}

type ProductView struct {
	Product      *domain.Product
	CanAddToCart bool
	Err          string
}

type SearchView struct {
	Query      client.SearchQuery
	Results    []domain.Product
	Categories []domain.Category
	Err        string
}

// Catalog backs the home, category, product and search views.
type Catalog struct {
	api    CatalogAPI
	gen    *Generation
	logger *slog.Logger

	mu       sync.Mutex
	category CategoryView
	search   SearchView
}

func NewCatalog(api CatalogAPI, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{api: api, gen: NewGeneration(), logger: logger}
}

func (c *Catalog) Home(ctx context.Context) HomeView {
	products, err := c.api.Products(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "load products failed", "error", err)
		return HomeView{Err: MsgProductsFailed}
	}
	return HomeView{Products: products, Categories: domain.DeriveCategories(products)}
}

// Category loads one category. The returned flag is false when a newer
// category request superseded this one; the stored view is left alone.
func (c *Catalog) Category(ctx context.Context, name string) (CategoryView, bool) {
	ticket := c.gen.Begin(keyCategory)
	view := CategoryView{Name: name}
	products, err := c.api.ProductsByCategory(ctx, name)
	if err != nil {
		c.logger.ErrorContext(ctx, "load category failed", "category", name, "error", err)
		view.Err = MsgCategoryFailed
	} else {
		view.Products = products
	}
	applied := ticket.Apply(func() {
		c.mu.Lock()
		c.category = view
		c.mu.Unlock()
	})
	if !applied {
		c.logger.DebugContext(ctx, "stale category response discarded", "category", name)
		return c.CurrentCategory(), false
	}
	return view, true
}

func (c *Catalog) CurrentCategory() CategoryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

func (c *Catalog) Product(ctx context.Context, id string) ProductView {
	p, err := c.api.Product(ctx, id)
	if err != nil {
		c.logger.ErrorContext(ctx, "load product failed", "product_id", id, "error", err)
		return ProductView{Err: MsgProductFailed}
	}
	return ProductView{Product: p, CanAddToCart: p.InStock}
}

// Search fetches the results and the category filter list concurrently.
// A failed results fetch leaves the results empty; a failed filter fetch
// surfaces MsgProductsFailed.
func (c *Catalog) Search(ctx context.Context, q client.SearchQuery) (SearchView, bool) {
	ticket := c.gen.Begin(keySearch)
	view := SearchView{Query: q}

	var g errgroup.Group
	g.Go(func() error {
		results, err := c.api.SearchProducts(ctx, q)
		if err != nil {
			c.logger.ErrorContext(ctx, "search failed", "query", q.Query, "error", err)
			return nil
		}
		view.Results = results
		return nil
	})
	var categories []domain.Category
	var categoriesErr error
	g.Go(func() error {
		products, err := c.api.Products(ctx)
		if err != nil {
			categoriesErr = err
			return err
		}
		categories = domain.DeriveCategories(products)
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.ErrorContext(ctx, "load search filters failed", "error", err)
	}
	view.Categories = categories
	if categoriesErr != nil {
		view.Err = MsgProductsFailed
	}

	applied := ticket.Apply(func() {
		c.mu.Lock()
		c.search = view
		c.mu.Unlock()
	})
	if !applied {
		return c.CurrentSearch(), false
	}
	return view, true
}

func (c *Catalog) CurrentSearch() SearchView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Cart is the client-only cart counter view.
type Cart struct {
	Count int
}

func AddToCart(ctx context.Context, session Session, view ProductView) (int, error) {
	if !view.CanAddToCart || view.Product == nil {
		return session.Snapshot().CartCount, ErrNotInStock
	}
	return session.AddToCart(ctx, view.Product.ID)
}

func CartOf(session Session) Cart {
	return Cart{Count: session.Snapshot().CartCount}
}
