package postgres

import (
	"context"
	"fmt"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	const stmt = `INSERT INTO items (id, name, quantity_code, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, item.ID, item.Name, item.Stock.Code(), item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) GetItem(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	const query = `SELECT id, name, quantity_code, created_at FROM items WHERE id = $1`

	var item domain.InventoryItem
	var code int
	err := r.queryRow(ctx, query, itemID).Scan(&item.ID, &item.Name, &code, &item.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.InventoryItem{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.InventoryItem{}, domain.ErrItemNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("get item: %w", err)
	}
	item.Stock = domain.StockFromCode(code)
	return item, nil
}

func (r *InventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	const query = `SELECT id, name, quantity_code, created_at FROM items ORDER BY name`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		var code int
		if err := rows.Scan(&item.ID, &item.Name, &code, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		item.Stock = domain.StockFromCode(code)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
