package catalog

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

const productColumns = `id,name,description,price,stock,category,sku,supplier,minimum_order,is_active,
	brand,sizes,colors,material,gender,images,created_at,updated_at`

func duplicateSKU(sku string) error {
	return apperr.DuplicateKey("a product with sku %q already exists", sku)
}

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id,name,description,price,stock,category,sku,supplier,minimum_order,is_active,
		   brand,sizes,colors,material,gender,images,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.SKU, p.Supplier,
		p.MinimumOrder, p.IsActive, p.Brand, pq.Array(p.Sizes), pq.Array(p.Colors),
		p.Material, p.Gender, pq.Array(p.Images), p.CreatedAt, p.UpdatedAt)
	if storage.IsUniqueViolation(err) {
		return duplicateSKU(p.SKU)
	}
	if err != nil {
		return apperr.Internal(err, "insert product")
	}
	return nil
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&p.SKU, &p.Supplier, &p.MinimumOrder, &p.IsActive, &p.Brand,
		pq.Array(&p.Sizes), pq.Array(&p.Colors), &p.Material, &p.Gender,
		pq.Array(&p.Images), &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "scan product")
	}
	p.normalize()
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, uid)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Category != "" {
		query += fmt.Sprintf(` AND category ILIKE $%d`, n)
		args = append(args, "%"+storage.EscapeLike(f.Category)+"%")
		n++
	}
	if f.Query != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, n)
		args = append(args, "%"+storage.EscapeLike(f.Query)+"%")
		n++
	}
	if f.Active != nil {
		query += fmt.Sprintf(` AND is_active=$%d`, n)
		args = append(args, *f.Active)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	return products, nil
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, stock=$4, category=$5, sku=$6, supplier=$7,
		    minimum_order=$8, is_active=$9, brand=$10, sizes=$11, colors=$12, material=$13,
		    gender=$14, images=$15, updated_at=$16
		WHERE id=$17`,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.SKU, p.Supplier,
		p.MinimumOrder, p.IsActive, p.Brand, pq.Array(p.Sizes), pq.Array(p.Colors),
		p.Material, p.Gender, pq.Array(p.Images), p.UpdatedAt, p.ID)
	if storage.IsUniqueViolation(err) {
		return duplicateSKU(p.SKU)
	}
	if err != nil {
		return apperr.Internal(err, "update product")
	}
	return requireAffected(res, "update product")
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("product not found")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return apperr.Internal(err, "delete product")
	}
	return requireAffected(res, "delete product")
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id string, delta int) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE products SET stock=GREATEST(stock + $1, 0), updated_at=NOW()
		WHERE id=$2
		RETURNING `+productColumns, delta, uid)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, apperr.Internal(err, "list categories")
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperr.Internal(err, "scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list categories")
	}
	return categories, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err, "%s", op)
	}
	if n == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
