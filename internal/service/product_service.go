package service

import (
	"context"
	"errors"
	"strings"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func validProduct(p domain.Product) bool {
	return strings.TrimSpace(p.Name) != "" && p.Price >= 0 &&
		p.Category.Valid() && p.Condition.Valid() && p.Brand.Valid() && p.Location.Valid()
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if !validProduct(p) {
		return nil, ErrInvalidInput
	}
	cp := p
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Update заменяет запись целиком; CreatedAt сохраняется, если не передан
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" || !validProduct(p) {
		return nil, ErrInvalidInput
	}
	cp := p
	if cp.CreatedAt.IsZero() {
		cur, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		cp.CreatedAt = cur.CreatedAt
	}
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

// Featured товары с флагом featured
func (s *ProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx, repository.ProductFilter{FeaturedOnly: true})
}

func (s *ProductService) ByCategory(ctx context.Context, c domain.ProductCategory) ([]domain.Product, error) {
	if !c.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, repository.ProductFilter{Category: c})
}
