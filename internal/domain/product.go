package domain

type Product struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	InStock     bool    `json:"inStock"`
	SellerID    string  `json:"sellerId,omitempty"`
}

func (p Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func DefaultPriceRange() PriceRange { return PriceRange{Min: 0, Max: 1000} }

// DeriveCategories builds one category per distinct product category in first-seen order.
func DeriveCategories(products []Product) []Category {
	seen := make(map[string]struct{}, len(products))
	out := make([]Category, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, Category{ID: len(out) + 1, Name: p.Category, ImageURL: p.ImageURL})
	}
	return out
}
