package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"golang.org/x/sync/singleflight"
)

// ProductService serves the catalog snapshot each terminal works from
type ProductService struct {
	productRepo repository.ProductRepository
	ttl         time.Duration
	sfg         singleflight.Group
}

// NewProductService creates a new product service. Catalogs older than ttl
// are reloaded on the next read; a ttl of zero keeps them until refreshed.
func NewProductService(productRepo repository.ProductRepository, ttl time.Duration) *ProductService {
	return &ProductService{productRepo: productRepo, ttl: ttl}
}

// Catalog returns the terminal's cached catalog, loading it once when
// missing even if many requests ask at the same time.
func (s *ProductService) Catalog(ctx context.Context, term *terminal.Terminal) ([]entity.Product, error) {
	if products, ok := term.CachedCatalog(s.ttl); ok {
		return products, nil
	}

	v, err, _ := s.sfg.Do(term.ID.String(), func() (interface{}, error) {
		if products, ok := term.CachedCatalog(s.ttl); ok {
			return products, nil
		}
		products, err := s.productRepo.ListItems(ctx, term.Backend())
		if err != nil {
			return nil, err
		}
		term.StoreCatalog(products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.Product), nil
}

// Refresh drops the cached catalog and loads it again
func (s *ProductService) Refresh(ctx context.Context, term *terminal.Terminal) ([]entity.Product, error) {
	term.InvalidateCatalog()
	return s.Catalog(ctx, term)
}

// Search filters the catalog with query
func (s *ProductService) Search(ctx context.Context, term *terminal.Terminal, query string) ([]entity.Product, error) {
	products, err := s.Catalog(ctx, term)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, query), nil
}

// FindByCode returns the product with itemCode
func (s *ProductService) FindByCode(ctx context.Context, term *terminal.Terminal, itemCode string) (entity.Product, error) {
	return s.find(ctx, term, func(p *entity.Product) bool {
		return p.ItemCode == itemCode
	})
}

// FindByBarcode returns the product whose barcode is exactly barcode
func (s *ProductService) FindByBarcode(ctx context.Context, term *terminal.Terminal, barcode string) (entity.Product, error) {
	return s.find(ctx, term, func(p *entity.Product) bool {
		return p.Barcode == barcode
	})
}

func (s *ProductService) find(ctx context.Context, term *terminal.Terminal, match func(*entity.Product) bool) (entity.Product, error) {
	products, err := s.Catalog(ctx, term)
	if err != nil {
		return entity.Product{}, err
	}
	for i := range products {
		if match(&products[i]) {
			return products[i], nil
		}
	}
	return entity.Product{}, apperror.NewNotFoundError("Product")
}

// FilterProducts keeps the products where one of name, item code or barcode
// contains every whitespace-separated token of query. Matching ignores case,
// spaces and hyphens. Queries shorter than two characters keep everything.
func FilterProducts(products []entity.Product, query string) []entity.Product {
	if len([]rune(strings.TrimSpace(query))) < minSearchLength {
		return products
	}
	tokens := make([]string, 0)
	for _, f := range strings.Fields(query) {
		if t := normalizeSearch(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return products
	}

	out := make([]entity.Product, 0)
	for _, p := range products {
		fields := []string{normalizeSearch(p.Name), normalizeSearch(p.ItemCode), normalizeSearch(p.Barcode)}
		if anyFieldHasAll(fields, tokens) {
			out = append(out, p)
		}
	}
	return out
}

func anyFieldHasAll(fields, tokens []string) bool {
	for _, f := range fields {
		if f != "" && containsAll(f, tokens) {
			return true
		}
	}
	return false
}

func containsAll(field string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(field, t) {
			return false
		}
	}
	return true
}

const minSearchLength = 2

var searchStripper = strings.NewReplacer(" ", "", "-", "")

func normalizeSearch(s string) string {
	return searchStripper.Replace(strings.ToLower(s))
}
