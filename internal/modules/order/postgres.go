package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id,order_number,user_id,total_amount,status,order_date,
	ship_street,ship_city,ship_state,ship_zip_code,ship_country,updated_at`

func (r *postgresRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&n); err != nil {
		return 0, apperr.Internal(err, "next order number")
	}
	return n, nil
}

// Create inserts the order and all its items inside a single transaction.
func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "begin order transaction")
	}
	defer tx.Rollback()

	a := o.ShippingAddress
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.OrderNumber, o.UserID, o.TotalAmount, o.Status, o.OrderDate,
		a.Street, a.City, a.State, a.ZipCode, a.Country, o.UpdatedAt)
	if storage.IsUniqueViolation(err) {
		return apperr.DuplicateKey("order number %s already exists", o.OrderNumber)
	}
	if err != nil {
		return apperr.Internal(err, "insert order")
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, position, product_id, product_name, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.New(), o.ID, i, item.ProductID, item.Name, item.Quantity, item.UnitPrice)
		if err != nil {
			return apperr.Internal(err, "insert order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "commit order")
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.UserID != "" {
		uid, err := uuid.Parse(f.UserID)
		if err != nil {
			return []*Order{}, nil
		}
		query += fmt.Sprintf(` AND user_id=$%d`, n)
		args = append(args, uid)
		n++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status=$%d`, n)
		args = append(args, f.Status)
	}
	query += ` ORDER BY order_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) Update(ctx context.Context, o *Order) error {
	a := o.ShippingAddress
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status=$1, ship_street=$2, ship_city=$3, ship_state=$4, ship_zip_code=$5,
		    ship_country=$6, updated_at=$7
		WHERE id=$8`,
		o.Status, a.Street, a.City, a.State, a.ZipCode, a.Country, o.UpdatedAt, o.ID)
	if err != nil {
		return apperr.Internal(err, "update order")
	}
	return requireAffected(res, "update order")
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("order not found")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, uid)
	if err != nil {
		return apperr.Internal(err, "delete order")
	}
	return requireAffected(res, "delete order")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{Items: []Item{}}
	a := &o.ShippingAddress
	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.Status, &o.OrderDate,
		&a.Street, &a.City, &a.State, &a.ZipCode, &a.Country, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "scan order")
	}
	return o, nil
}

// attachItems loads the line items of orders with one query.
func (r *postgresRepo) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, quantity, unit_price
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return apperr.Internal(err, "list order items")
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item Item
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return apperr.Internal(err, "scan order item")
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return apperr.Internal(err, "list order items")
	}
	return nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err, "%s", op)
	}
	if n == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
