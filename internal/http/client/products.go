package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

type SearchQuery struct {
	Query      string
	Category   string
	PriceRange domain.PriceRange
}

func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	v.Set("query", q.Query)
	v.Set("category", q.Category)
	v["priceRange[]"] = []string{
		strconv.FormatFloat(q.PriceRange.Min, 'f', -1, 64),
		strconv.FormatFloat(q.PriceRange.Max, 'f', -1, 64),
	}
	return v
}

type ProductUpload struct {
	Name      string
	Price     string
	Category  string
	ImageName string
	Image     io.Reader
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getJSON(ctx, "products.list", c.resolve("products"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.getJSON(ctx, "products.get", c.resolve("products", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, name string) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getJSON(ctx, "products.by_category", c.resolve("products", "category", name), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchProducts(ctx context.Context, q SearchQuery) ([]domain.Product, error) {
	u := c.resolve("products", "search")
	u.RawQuery = q.Values().Encode()
	var out []domain.Product
	if err := c.getJSON(ctx, "products.search", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UploadProduct(ctx context.Context, up ProductUpload) (*domain.Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range [][2]string{{"name", up.Name}, {"price", up.Price}, {"category", up.Category}} {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("products.upload: write field %s: %w", f[0], err)
		}
	}
	if up.Image != nil {
		part, err := w.CreateFormFile("image", up.ImageName)
		if err != nil {
			return nil, fmt.Errorf("products.upload: create image part: %w", err)
		}
		if _, err := io.Copy(part, up.Image); err != nil {
			return nil, fmt.Errorf("products.upload: copy image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("products.upload: close form: %w", err)
	}
	var out domain.Product
	err := c.do(ctx, "products.upload", http.MethodPost, c.resolve("products", "upload").String(), &buf, w.FormDataContentType(), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
