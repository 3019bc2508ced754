// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-trade/skipjack/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveDefinition upserts a tariff definition. The unique key on
// (owner, layer, triple, simulator) makes a save with an existing key
// replace the previous entry, id included.
func (r *SQLRepository) SaveDefinition(ctx context.Context, ownerID string, def *domain.TariffDefinition) error {
	if ownerID == "" {
		return fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	simulator := 0
	if def.Simulator {
		simulator = 1
	}

	var expiration sql.NullTime
	if !def.Ongoing() {
		expiration = sql.NullTime{Time: def.ExpirationDate.Time, Valid: true}
	}

	now := time.Now().UTC()
	createdAt := def.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := `
		INSERT INTO definitions (
			id, owner_id, layer, product, exporting_from, importing_to,
			tariff_rate, tariff_type, effective_date, expiration_date,
			simulator, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, layer, product, exporting_from, importing_to, simulator) DO UPDATE SET
			id = excluded.id,
			tariff_rate = excluded.tariff_rate,
			tariff_type = excluded.tariff_type,
			effective_date = excluded.effective_date,
			expiration_date = excluded.expiration_date,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		def.ID, ownerID, string(def.Layer),
		def.Product, def.ExportingFrom, def.ImportingTo,
		def.TariffRate, string(def.TariffType),
		def.EffectiveDate.Time, expiration,
		simulator, createdAt, now,
	)
	return err
}

// GetDefinition retrieves a definition by ID with owner isolation.
func (r *SQLRepository) GetDefinition(ctx context.Context, ownerID string, defID string) (*domain.TariffDefinition, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, owner_id, layer, product, exporting_from, importing_to,
			   tariff_rate, tariff_type, effective_date, expiration_date,
			   simulator, created_at, updated_at
		FROM definitions
		WHERE owner_id = ? AND id = ?
	`

	def, err := scanDefinition(r.db.QueryRowContext(ctx, r.rebind(query), ownerID, defID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return def, err
}

// ListDefinitions retrieves all definitions of one layer for an owner.
// An empty ownerID lists the layer across all owners, which the server
// uses to rebuild its in-memory store at startup.
func (r *SQLRepository) ListDefinitions(ctx context.Context, ownerID string, layer domain.DefinitionLayer) ([]*domain.TariffDefinition, error) {
	query := `
		SELECT id, owner_id, layer, product, exporting_from, importing_to,
			   tariff_rate, tariff_type, effective_date, expiration_date,
			   simulator, created_at, updated_at
		FROM definitions
		WHERE layer = ?
		ORDER BY product, exporting_from, importing_to
	`
	args := []interface{}{string(layer)}
	if ownerID != "" {
		query = `
		SELECT id, owner_id, layer, product, exporting_from, importing_to,
			   tariff_rate, tariff_type, effective_date, expiration_date,
			   simulator, created_at, updated_at
		FROM definitions
		WHERE owner_id = ? AND layer = ?
		ORDER BY product, exporting_from, importing_to
	`
		args = []interface{}{ownerID, string(layer)}
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []*domain.TariffDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, rows.Err()
}

// DeleteDefinition removes a definition by ID with owner isolation.
func (r *SQLRepository) DeleteDefinition(ctx context.Context, ownerID string, defID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	query := `DELETE FROM definitions WHERE owner_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, r.rebind(query), ownerID, defID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row scanner) (*domain.TariffDefinition, error) {
	var (
		def        domain.TariffDefinition
		layer      string
		tariffType string
		effective  time.Time
		expiration sql.NullTime
		simulator  int
	)

	err := row.Scan(
		&def.ID, &def.OwnerID, &layer,
		&def.Product, &def.ExportingFrom, &def.ImportingTo,
		&def.TariffRate, &tariffType,
		&effective, &expiration,
		&simulator, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	def.Layer = domain.DefinitionLayer(layer)
	def.TariffType = domain.RateType(tariffType)
	def.EffectiveDate = domain.Date{Time: effective.UTC()}
	if expiration.Valid {
		exp := domain.Date{Time: expiration.Time.UTC()}
		def.ExpirationDate = &exp
	}
	def.Simulator = simulator == 1

	return &def, nil
}

// SaveProduct upserts a catalog product.
func (r *SQLRepository) SaveProduct(ctx context.Context, p *domain.CatalogProduct) error {
	query := `
		INSERT INTO products (id, name, brand, unit_cost, unit, currency)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, brand) DO UPDATE SET
			unit_cost = excluded.unit_cost,
			unit = excluded.unit,
			currency = excluded.currency
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		p.ID, p.Name, p.Brand, p.UnitCost, p.Unit, p.Currency,
	)
	return err
}

// ListProducts retrieves every catalog product.
func (r *SQLRepository) ListProducts(ctx context.Context) ([]*domain.CatalogProduct, error) {
	query := `
		SELECT id, name, brand, unit_cost, unit, currency
		FROM products
		ORDER BY name, brand
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.CatalogProduct
	for rows.Next() {
		var p domain.CatalogProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.UnitCost, &p.Unit, &p.Currency); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// SaveCountryRate upserts a country-pair rate.
func (r *SQLRepository) SaveCountryRate(ctx context.Context, rate *domain.CountryPairRate) error {
	query := `
		INSERT INTO country_rates (exporting_from, importing_to, ahs, mfn)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(exporting_from, importing_to) DO UPDATE SET
			ahs = excluded.ahs,
			mfn = excluded.mfn
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rate.ExportingFrom, rate.ImportingTo, rate.AHS, rate.MFN,
	)
	return err
}

// GetCountryRate retrieves the rates for one directional pair.
func (r *SQLRepository) GetCountryRate(ctx context.Context, exportingFrom, importingTo string) (*domain.CountryPairRate, error) {
	query := `
		SELECT exporting_from, importing_to, ahs, mfn
		FROM country_rates
		WHERE exporting_from = ? AND importing_to = ?
	`

	var rate domain.CountryPairRate
	err := r.db.QueryRowContext(ctx, r.rebind(query), exportingFrom, importingTo).Scan(
		&rate.ExportingFrom, &rate.ImportingTo, &rate.AHS, &rate.MFN,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rate, nil
}

// ListCountryRates retrieves every country-pair rate.
func (r *SQLRepository) ListCountryRates(ctx context.Context) ([]*domain.CountryPairRate, error) {
	query := `
		SELECT exporting_from, importing_to, ahs, mfn
		FROM country_rates
		ORDER BY importing_to, exporting_from
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*domain.CountryPairRate
	for rows.Next() {
		var rate domain.CountryPairRate
		if err := rows.Scan(&rate.ExportingFrom, &rate.ImportingTo, &rate.AHS, &rate.MFN); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}

	return rates, rows.Err()
}

// SaveCalculation stores a calculation result with owner isolation.
func (r *SQLRepository) SaveCalculation(ctx context.Context, ownerID string, calc *domain.CalculationResult) error {
	if ownerID == "" {
		return fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	breakdown, _ := json.Marshal(calc.Breakdown)

	query := `
		INSERT INTO calculations (
			id, owner_id, product, brand, exporting_from, importing_to, mode,
			quantity, unit_cost, unit, currency,
			tariff_rate, tariff_type, rate_source,
			product_cost, tariff_amount, total_cost,
			breakdown, performed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		calc.ID, ownerID, calc.Product, calc.Brand,
		calc.ExportingFrom, calc.ImportingTo, string(calc.Mode),
		calc.Quantity, calc.UnitCost, calc.Unit, calc.Currency,
		calc.TariffRate, string(calc.TariffType), calc.RateSource,
		calc.ProductCost, calc.TariffAmount, calc.TotalCost,
		string(breakdown), calc.PerformedAt,
	)
	return err
}

// GetCalculation retrieves a calculation by ID with owner isolation.
func (r *SQLRepository) GetCalculation(ctx context.Context, ownerID string, calcID string) (*domain.CalculationResult, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, owner_id, product, brand, exporting_from, importing_to, mode,
			   quantity, unit_cost, unit, currency,
			   tariff_rate, tariff_type, rate_source,
			   product_cost, tariff_amount, total_cost,
			   breakdown, performed_at
		FROM calculations
		WHERE owner_id = ? AND id = ?
	`

	calc, err := scanCalculation(r.db.QueryRowContext(ctx, r.rebind(query), ownerID, calcID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return calc, err
}

// ListCalculations retrieves an owner's calculations since a point in time,
// newest first.
func (r *SQLRepository) ListCalculations(ctx context.Context, ownerID string, since time.Time, limit int) ([]*domain.CalculationResult, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, owner_id, product, brand, exporting_from, importing_to, mode,
			   quantity, unit_cost, unit, currency,
			   tariff_rate, tariff_type, rate_source,
			   product_cost, tariff_amount, total_cost,
			   breakdown, performed_at
		FROM calculations
		WHERE owner_id = ? AND performed_at >= ?
		ORDER BY performed_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), ownerID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calcs []*domain.CalculationResult
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}

	return calcs, rows.Err()
}

func scanCalculation(row scanner) (*domain.CalculationResult, error) {
	var (
		calc       domain.CalculationResult
		mode       string
		tariffType string
		breakdown  string
	)

	err := row.Scan(
		&calc.ID, &calc.OwnerID, &calc.Product, &calc.Brand,
		&calc.ExportingFrom, &calc.ImportingTo, &mode,
		&calc.Quantity, &calc.UnitCost, &calc.Unit, &calc.Currency,
		&calc.TariffRate, &tariffType, &calc.RateSource,
		&calc.ProductCost, &calc.TariffAmount, &calc.TotalCost,
		&breakdown, &calc.PerformedAt,
	)
	if err != nil {
		return nil, err
	}

	calc.Mode = domain.CalculationMode(mode)
	calc.TariffType = domain.RateType(tariffType)
	if breakdown != "" {
		json.Unmarshal([]byte(breakdown), &calc.Breakdown)
	}

	return &calc, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
