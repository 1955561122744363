package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) GetItemForUpdate(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	const query = `SELECT id, name, quantity_code, created_at FROM items WHERE id = $1 FOR UPDATE`

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

func (r *ReservationRepository) SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error) {
	const query = `
SELECT COALESCE(SUM(ci.quantity), 0)
FROM checkout_items ci
JOIN checkouts c ON c.id = ci.checkout_id
WHERE ci.item_id = $1 AND c.time_in IS NULL AND c.time_out < $3 AND c.time_due > $2`

	var total int
	if err := r.queryRow(ctx, query, itemID, ival.Start, ival.End).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum open checkouts: %w", err)
	}
	return total, nil
}

func (r *ReservationRepository) SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error) {
	const query = `
SELECT COALESCE(SUM(ri.quantity), 0)
FROM reservation_items ri
JOIN reservations res ON res.id = ri.reservation_id
WHERE ri.item_id = $1 AND res.cancelled_at IS NULL AND res.time_start < $3 AND res.time_end > $2`

	var total int
	if err := r.queryRow(ctx, query, itemID, ival.Start, ival.End).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum active reservations: %w", err)
	}
	return total, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, holder_id, time_created, time_start, time_end, cancelled_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		reservation.ID,
		reservation.HolderID,
		reservation.TimeCreated,
		reservation.TimeStart,
		reservation.TimeEnd,
		reservation.CancelledAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	const itemStmt = `INSERT INTO reservation_items (reservation_id, item_id, quantity) VALUES ($1, $2, $3)`
	for itemID, qty := range reservation.Items {
		if _, err := r.exec(ctx, itemStmt, reservation.ID, itemID, qty); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("create reservation item: %w", err)
		}
	}
	return nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	const query = `
SELECT id, holder_id, time_created, time_start, time_end, cancelled_at
FROM reservations
WHERE id = $1`
	return r.getReservation(ctx, query, reservationID)
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error) {
	const query = `
SELECT id, holder_id, time_created, time_start, time_end, cancelled_at
FROM reservations
WHERE id = $1
FOR UPDATE`
	return r.getReservation(ctx, query, reservationID)
}

func (r *ReservationRepository) getReservation(ctx context.Context, query, reservationID string) (domain.Reservation, error) {
	var res domain.Reservation
	err := r.queryRow(ctx, query, reservationID).
		Scan(&res.ID, &res.HolderID, &res.TimeCreated, &res.TimeStart, &res.TimeEnd, &res.CancelledAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}

	items, err := r.loadItems(ctx, res.ID)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.Items = items
	return res, nil
}

func (r *ReservationRepository) ListReservationsByHolder(ctx context.Context, holderID string) ([]domain.Reservation, error) {
	const query = `
SELECT id, holder_id, time_created, time_start, time_end, cancelled_at
FROM reservations
WHERE holder_id = $1
ORDER BY time_start`

	rows, err := r.query(ctx, query, holderID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by holder: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.HolderID, &res.TimeCreated, &res.TimeStart, &res.TimeEnd, &res.CancelledAt); err != nil {
			return nil, fmt.Errorf("list reservations by holder: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations by holder: %w", err)
	}

	for i := range reservations {
		items, err := r.loadItems(ctx, reservations[i].ID)
		if err != nil {
			return nil, err
		}
		reservations[i].Items = items
	}
	return reservations, nil
}

func (r *ReservationRepository) loadItems(ctx context.Context, reservationID string) (map[string]int, error) {
	const query = `SELECT item_id, quantity FROM reservation_items WHERE reservation_id = $1`

	rows, err := r.query(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("load reservation items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var itemID string
		var qty int
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("load reservation items: %w", err)
		}
		items[itemID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load reservation items: %w", err)
	}
	return items, nil
}

func (r *ReservationRepository) CancelReservation(ctx context.Context, reservationID string, at time.Time) error {
	const stmt = `UPDATE reservations SET cancelled_at = $2 WHERE id = $1 AND cancelled_at IS NULL`

	tag, err := r.exec(ctx, stmt, reservationID, at)
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClosed
	}
	return nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
