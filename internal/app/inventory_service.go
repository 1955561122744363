package app

import (
	"context"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

type InventoryRepository interface {
	CreateItem(ctx context.Context, item domain.InventoryItem) error
	GetItem(ctx context.Context, itemID string) (domain.InventoryItem, error)
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
}

// InventoryService is the catalog write surface. The booking services only
// ever read items; stock changes never rewrite committed history.
type InventoryService struct {
	repo  InventoryRepository
	clock clock.Clock
}

func NewInventoryService(repo InventoryRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:  repo,
		clock: clk,
	}
}

type CreateItemInput struct {
	Name  string
	Stock domain.Stock
}

func (s *InventoryService) CreateItem(ctx context.Context, in CreateItemInput) (domain.InventoryItem, error) {
	if in.Name == "" {
		return domain.InventoryItem{}, domain.ErrItemNameRequired
	}

	item := domain.InventoryItem{
		ID:        newID(),
		Name:      in.Name,
		Stock:     in.Stock,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return domain.InventoryItem{}, err
	}
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	if itemID == "" {
		return domain.InventoryItem{}, domain.ErrInvalidID
	}
	return s.repo.GetItem(ctx, itemID)
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.ListItems(ctx)
}
