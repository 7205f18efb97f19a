package catalog

import (
	"context"
	"database/sql"

	"atelier/internal/domain"
)

type Repository interface {
	FindByID(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}
