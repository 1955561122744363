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

type CheckoutRepository struct {
	pool *pgxpool.Pool
}

func NewCheckoutRepository(pool *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

func (r *CheckoutRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CheckoutRepository) GetItem(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	const query = `SELECT id, name, quantity_code, created_at FROM items WHERE id = $1`
	return r.scanItem(r.queryRow(ctx, query, itemID))
}

// GetItemForUpdate locks the catalog row for the duration of the booking
// transaction; concurrent bookings for the same item serialize here.
func (r *CheckoutRepository) GetItemForUpdate(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	const query = `SELECT id, name, quantity_code, created_at FROM items WHERE id = $1 FOR UPDATE`
	return r.scanItem(r.queryRow(ctx, query, itemID))
}

func (r *CheckoutRepository) scanItem(row pgx.Row) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	var code int
	err := row.Scan(&item.ID, &item.Name, &code, &item.CreatedAt)
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

func (r *CheckoutRepository) SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error) {
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

func (r *CheckoutRepository) SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error) {
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

func (r *CheckoutRepository) CreateCheckout(ctx context.Context, checkout domain.Checkout) error {
	const stmt = `
INSERT INTO checkouts (id, holder_id, time_out, time_due, time_in, notifications_sent)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		checkout.ID,
		checkout.HolderID,
		checkout.TimeOut,
		checkout.TimeDue,
		checkout.TimeIn,
		checkout.NotificationsSent,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create checkout: %w", err)
	}

	const itemStmt = `INSERT INTO checkout_items (checkout_id, item_id, quantity) VALUES ($1, $2, $3)`
	for itemID, qty := range checkout.Items {
		if _, err := r.exec(ctx, itemStmt, checkout.ID, itemID, qty); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("create checkout item: %w", err)
		}
	}
	return nil
}

func (r *CheckoutRepository) GetCheckout(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	const query = `
SELECT id, holder_id, time_out, time_due, time_in, notifications_sent
FROM checkouts
WHERE id = $1`
	return r.getCheckout(ctx, query, checkoutID)
}

func (r *CheckoutRepository) GetCheckoutForUpdate(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	const query = `
SELECT id, holder_id, time_out, time_due, time_in, notifications_sent
FROM checkouts
WHERE id = $1
FOR UPDATE`
	return r.getCheckout(ctx, query, checkoutID)
}

func (r *CheckoutRepository) getCheckout(ctx context.Context, query, checkoutID string) (domain.Checkout, error) {
	var c domain.Checkout
	err := r.queryRow(ctx, query, checkoutID).
		Scan(&c.ID, &c.HolderID, &c.TimeOut, &c.TimeDue, &c.TimeIn, &c.NotificationsSent)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Checkout{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Checkout{}, domain.ErrCheckoutNotFound
		}
		return domain.Checkout{}, fmt.Errorf("get checkout: %w", err)
	}

	items, err := r.loadItems(ctx, c.ID)
	if err != nil {
		return domain.Checkout{}, err
	}
	c.Items = items
	return c, nil
}

func (r *CheckoutRepository) ListCheckoutsByHolder(ctx context.Context, holderID string) ([]domain.Checkout, error) {
	const query = `
SELECT id, holder_id, time_out, time_due, time_in, notifications_sent
FROM checkouts
WHERE holder_id = $1
ORDER BY time_out DESC`

	checkouts, err := r.listCheckouts(ctx, query, holderID)
	if err != nil {
		return nil, fmt.Errorf("list checkouts by holder: %w", err)
	}
	return checkouts, nil
}

// ListOverdueCheckouts returns open checkouts past due, oldest first, for the
// notification sweep.
func (r *CheckoutRepository) ListOverdueCheckouts(ctx context.Context, now time.Time) ([]domain.Checkout, error) {
	const query = `
SELECT id, holder_id, time_out, time_due, time_in, notifications_sent
FROM checkouts
WHERE time_in IS NULL AND time_due < $1
ORDER BY time_due`

	checkouts, err := r.listCheckouts(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue checkouts: %w", err)
	}
	return checkouts, nil
}

func (r *CheckoutRepository) listCheckouts(ctx context.Context, query string, arg any) ([]domain.Checkout, error) {
	rows, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	for rows.Next() {
		var c domain.Checkout
		if err := rows.Scan(&c.ID, &c.HolderID, &c.TimeOut, &c.TimeDue, &c.TimeIn, &c.NotificationsSent); err != nil {
			return nil, err
		}
		checkouts = append(checkouts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range checkouts {
		items, err := r.loadItems(ctx, checkouts[i].ID)
		if err != nil {
			return nil, err
		}
		checkouts[i].Items = items
	}
	return checkouts, nil
}

func (r *CheckoutRepository) loadItems(ctx context.Context, checkoutID string) (map[string]int, error) {
	const query = `SELECT item_id, quantity FROM checkout_items WHERE checkout_id = $1`

	rows, err := r.query(ctx, query, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load checkout items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var itemID string
		var qty int
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("load checkout items: %w", err)
		}
		items[itemID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load checkout items: %w", err)
	}
	return items, nil
}

func (r *CheckoutRepository) UpdateCheckoutDue(ctx context.Context, checkoutID string, due time.Time) error {
	const stmt = `UPDATE checkouts SET time_due = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, checkoutID, due)
	if err != nil {
		return fmt.Errorf("update checkout due: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCheckoutNotFound
	}
	return nil
}

func (r *CheckoutRepository) CloseCheckout(ctx context.Context, checkoutID string, timeIn time.Time) error {
	const stmt = `UPDATE checkouts SET time_in = $2 WHERE id = $1 AND time_in IS NULL`

	tag, err := r.exec(ctx, stmt, checkoutID, timeIn)
	if err != nil {
		return fmt.Errorf("close checkout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClosed
	}
	return nil
}

func (r *CheckoutRepository) IncrementNotifications(ctx context.Context, checkoutID string) error {
	const stmt = `UPDATE checkouts SET notifications_sent = notifications_sent + 1 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, checkoutID)
	if err != nil {
		return fmt.Errorf("increment notifications: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCheckoutNotFound
	}
	return nil
}

func (r *CheckoutRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CheckoutRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *CheckoutRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
