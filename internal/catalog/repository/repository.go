package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

var ErrProductNotFound = errors.New("product not found")

// RepoInterface is what the catalog server reads from.
type RepoInterface interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetStock(ctx context.Context, productID int64) (domain.StockInfo, error)
	SetStock(ctx context.Context, productID int64, amount int) error
	Close() error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// every new connection to ":memory:" is a fresh database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		WHERE id = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Price, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetStock(ctx context.Context, productID int64) (domain.StockInfo, error) {
	query := `SELECT product_id, amount FROM stock WHERE product_id = ?`

	var s domain.StockInfo
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&s.ProductID, &s.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockInfo{}, ErrProductNotFound
	}
	if err != nil {
		return domain.StockInfo{}, fmt.Errorf("failed to query stock: %w", err)
	}
	return s, nil
}

// SetStock overwrites the stock level of an existing product.
func (r *Repository) SetStock(ctx context.Context, productID int64, amount int) error {
	if amount < 0 {
		return fmt.Errorf("stock amount must not be negative, got %d", amount)
	}
	if _, err := r.GetProduct(ctx, productID); err != nil {
		return err
	}

	query := `
		INSERT INTO stock (product_id, amount) VALUES (?, ?)
		ON CONFLICT (product_id) DO UPDATE SET amount = excluded.amount
	`
	if _, err := r.db.ExecContext(ctx, query, productID, amount); err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
