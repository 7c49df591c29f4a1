package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLRepository serves both the catalog and the cart store from one database.
// Queries use $N placeholders, which sqlite and postgres both accept.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const productColumns = `id, name, price, COALESCE(image, ''), COALESCE(category, 'General'),
		COALESCE(description, ''), COALESCE(stock, 0), COALESCE(rating, 0)`

const cartLineQuery = `
		SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Image,
		&p.Category,
		&p.Description,
		&p.Stock,
		&p.Rating,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanCartLine(row rowScanner) (domain.CartLine, error) {
	var (
		id, productID int64
		name          string
		price         decimal.Decimal
		quantity      int
	)
	if err := row.Scan(&id, &productID, &name, &price, &quantity); err != nil {
		return domain.CartLine{}, err
	}
	return domain.NewCartLine(id, productID, name, price, quantity), nil
}

func (r *SQLRepository) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *SQLRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLRepository) ProductExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, cartLineQuery+` ORDER BY ci.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*domain.CartLine, error) {
	return r.getOne(ctx, cartLineQuery+` WHERE ci.id = $1`, id)
}

func (r *SQLRepository) GetByProductID(ctx context.Context, productID int64) (*domain.CartLine, error) {
	return r.getOne(ctx, cartLineQuery+` WHERE ci.product_id = $1`, productID)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg int64) (*domain.CartLine, error) {
	line, err := scanCartLine(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return &line, nil
}

func (r *SQLRepository) Insert(ctx context.Context, productID int64, quantity int) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cart_items (product_id, quantity) VALUES ($1, $2) RETURNING id`,
		productID, quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cart item: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return requireAffected(result)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return requireAffected(result)
}

func (r *SQLRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *SQLRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check cart item %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrCartLineNotFound
	}
	return nil
}
