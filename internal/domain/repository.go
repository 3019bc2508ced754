package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
// Definition and calculation methods take an ownerID scope; the base and
// overlay layers live under GlobalOwner.
type Repository interface {
	// Tariff definition operations
	SaveDefinition(ctx context.Context, ownerID string, def *TariffDefinition) error
	GetDefinition(ctx context.Context, ownerID string, defID string) (*TariffDefinition, error)
	// ListDefinitions lists one layer's definitions for an owner. An
	// empty ownerID lists the layer across all owners.
	ListDefinitions(ctx context.Context, ownerID string, layer DefinitionLayer) ([]*TariffDefinition, error)
	DeleteDefinition(ctx context.Context, ownerID string, defID string) error

	// Product catalog operations
	SaveProduct(ctx context.Context, p *CatalogProduct) error
	ListProducts(ctx context.Context) ([]*CatalogProduct, error)

	// Country-pair rate catalog operations
	SaveCountryRate(ctx context.Context, r *CountryPairRate) error
	GetCountryRate(ctx context.Context, exportingFrom, importingTo string) (*CountryPairRate, error)
	ListCountryRates(ctx context.Context) ([]*CountryPairRate, error)

	// Calculation history operations
	SaveCalculation(ctx context.Context, ownerID string, calc *CalculationResult) error
	GetCalculation(ctx context.Context, ownerID string, calcID string) (*CalculationResult, error)
	ListCalculations(ctx context.Context, ownerID string, since time.Time, limit int) ([]*CalculationResult, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string `json:"driver" yaml:"driver"`

	// SQLite specific
	SQLitePath string `json:"sqlitePath" yaml:"sqlitePath"`

	// PostgreSQL specific
	PostgresHost     string `json:"postgresHost" yaml:"postgresHost"`
	PostgresPort     int    `json:"postgresPort" yaml:"postgresPort"`
	PostgresUser     string `json:"postgresUser" yaml:"postgresUser"`
	PostgresPassword string `json:"postgresPassword" yaml:"postgresPassword"`
	PostgresDB       string `json:"postgresDb" yaml:"postgresDb"`
	PostgresSSLMode  string `json:"postgresSslMode" yaml:"postgresSslMode"`

	// Connection pool settings
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}
