package repositories

import (
	"context"
	"fmt"
	"strings"

	"caja-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(barcode, name, size, color, unit, rubro, category,
                              price, cost_price, stock)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, created_at, updated_at`,
		p.Barcode, p.Name, p.Size, p.Color, p.Unit, p.Rubro, p.Category,
		p.Price, p.CostPrice, p.Stock,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	row := r.DB.QueryRow(ctx, productSelect+` WHERE id=$1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	row := r.DB.QueryRow(ctx, productSelect+` WHERE barcode=$1`, barcode)
	return scanProduct(row)
}

// List applies the same filter semantics as bulk price updates: rubro and
// category are exact matches, search matches name substrings case-insensitively.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	query := productSelect
	var conds []string
	var args []interface{}

	if filter.Rubro != "" {
		args = append(args, filter.Rubro)
		conds = append(conds, fmt.Sprintf("rubro=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products
         SET barcode=$2, name=$3, size=$4, color=$5, unit=$6, rubro=$7,
             category=$8, price=$9, cost_price=$10, stock=$11, updated_at=NOW()
         WHERE id=$1`,
		p.ID, p.Barcode, p.Name, p.Size, p.Color, p.Unit, p.Rubro,
		p.Category, p.Price, p.CostPrice, p.Stock)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

// UpdatePrices persists a batch of recomputed price values in one round trip
func (r *ProductRepository) UpdatePrices(ctx context.Context, field models.PriceField, outcomes []models.PriceUpdateOutcome) error {
	batch := &pgx.Batch{}
	for _, o := range outcomes {
		if !o.Updated {
			continue
		}
		batch.Queue(
			fmt.Sprintf(`UPDATE products SET %s=$2, updated_at=NOW() WHERE id=$1`, field),
			o.ProductID, o.NewValue)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.DB.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to apply price batch: %w", err)
		}
	}
	return nil
}

const productSelect = `SELECT id, COALESCE(barcode, ''), name, COALESCE(size, ''),
       COALESCE(color, ''), COALESCE(unit, 'u'), COALESCE(rubro, ''),
       COALESCE(category, ''), price, cost_price, stock, created_at, updated_at
       FROM products`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Barcode, &p.Name, &p.Size, &p.Color, &p.Unit,
		&p.Rubro, &p.Category, &p.Price, &p.CostPrice, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}
