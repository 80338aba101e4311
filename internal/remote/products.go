package remote

import (
	"context"
	"net/http"
	"time"

	"gtech/internal/catalog"
	"gtech/internal/domain"
	"gtech/internal/repository"
)

// Products reads the catalog from GET product. The backend owns the catalog,
// so writes are not supported from the client.
type Products struct {
	c   *Client
	now func() time.Time
}

func NewProducts(c *Client) *Products { return &Products{c: c, now: time.Now} }

var _ repository.ProductRepository = (*Products)(nil)

func (p *Products) fetch(ctx context.Context) ([]domain.Product, error) {
	var list productList
	if err := p.c.do(ctx, http.MethodGet, "product", false, nil, &list); err != nil {
		return nil, err
	}
	now := p.now()
	out := make([]domain.Product, 0, len(list))
	for _, w := range list {
		out = append(out, catalog.Normalize(w.domain(), now))
	}
	return out, nil
}

func (p *Products) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	list, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(list), nil
}

func (p *Products) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	list, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	for _, x := range list {
		if x.ID == id {
			cp := x
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (p *Products) Create(context.Context, *domain.Product) error { return repository.ErrNotSupported }
func (p *Products) Update(context.Context, *domain.Product) error { return repository.ErrNotSupported }
func (p *Products) Delete(context.Context, string) error          { return repository.ErrNotSupported }
