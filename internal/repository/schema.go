package repository

// Schema definitions for the Skipjack database.
// Compatible with both SQLite and PostgreSQL.

const schemaProducts = `
CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand TEXT NOT NULL,
    unit_cost REAL NOT NULL,
    unit TEXT NOT NULL,
    currency TEXT NOT NULL,
    UNIQUE (name, brand)
);

CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
`

const schemaCountryRates = `
CREATE TABLE IF NOT EXISTS country_rates (
    exporting_from TEXT NOT NULL,
    importing_to TEXT NOT NULL,
    ahs REAL NOT NULL,
    mfn REAL NOT NULL,
    PRIMARY KEY (exporting_from, importing_to)
);
`

// schemaDefinitions stores all three layers in one table. The unique
// constraint carries the replace-by-key semantics: one entry per lookup
// triple per owner, layer, and simulator scope.
const schemaDefinitions = `
CREATE TABLE IF NOT EXISTS definitions (
    id TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    layer TEXT NOT NULL,
    product TEXT NOT NULL,
    exporting_from TEXT NOT NULL,
    importing_to TEXT NOT NULL,
    tariff_rate REAL NOT NULL,
    tariff_type TEXT NOT NULL,
    effective_date TIMESTAMP NOT NULL,
    expiration_date TIMESTAMP,
    simulator INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id),
    UNIQUE (owner_id, layer, product, exporting_from, importing_to, simulator)
);

CREATE INDEX IF NOT EXISTS idx_definitions_owner ON definitions(owner_id);
CREATE INDEX IF NOT EXISTS idx_definitions_layer ON definitions(owner_id, layer);
CREATE INDEX IF NOT EXISTS idx_definitions_triple ON definitions(product, exporting_from, importing_to);
`

const schemaCalculations = `
CREATE TABLE IF NOT EXISTS calculations (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    product TEXT NOT NULL,
    brand TEXT,
    exporting_from TEXT NOT NULL,
    importing_to TEXT NOT NULL,
    mode TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit_cost REAL NOT NULL,
    unit TEXT,
    currency TEXT NOT NULL,
    tariff_rate REAL NOT NULL,
    tariff_type TEXT NOT NULL,
    rate_source TEXT NOT NULL,
    product_cost REAL NOT NULL,
    tariff_amount REAL NOT NULL,
    total_cost REAL NOT NULL,
    breakdown TEXT NOT NULL,
    performed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculations_owner ON calculations(owner_id);
CREATE INDEX IF NOT EXISTS idx_calculations_performed ON calculations(owner_id, performed_at);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaProducts,
		schemaCountryRates,
		schemaDefinitions,
		schemaCalculations,
	}
}
