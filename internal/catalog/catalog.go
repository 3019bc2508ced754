// Package catalog provides the built-in reference data: product variants,
// directional country-pair rates, and the base tariff definitions derived
// from them.
package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/opensource-trade/skipjack/internal/domain"
)

// BaseCurrency is the currency all catalog unit costs are expressed in.
const BaseCurrency = "USD"

// baseEffective is the effective date stamped on derived base definitions.
var baseEffective = domain.NewDate(2022, time.January, 1)

// Catalog indexes the built-in products and country-pair rates.
type Catalog struct {
	products  []*domain.CatalogProduct
	byVariant map[string]*domain.CatalogProduct
	rates     map[string]*domain.CountryPairRate

	names     []string
	countries []string
}

// New builds the catalog from the embedded seed data.
func New() *Catalog {
	c := &Catalog{
		byVariant: make(map[string]*domain.CatalogProduct),
		rates:     make(map[string]*domain.CountryPairRate),
	}

	nameSet := make(map[string]bool)
	for i, sp := range seedProducts {
		p := &domain.CatalogProduct{
			ID:       fmt.Sprintf("prod-%03d", i+1),
			Name:     sp.name,
			Brand:    sp.brand,
			UnitCost: sp.cost,
			Unit:     sp.unit,
			Currency: BaseCurrency,
		}
		c.products = append(c.products, p)
		c.byVariant[variantKey(p.Name, p.Brand)] = p
		if !nameSet[p.Name] {
			nameSet[p.Name] = true
			c.names = append(c.names, p.Name)
		}
	}
	sort.Strings(c.names)

	countrySet := make(map[string]bool)
	for _, sr := range seedRates {
		r := &domain.CountryPairRate{
			ExportingFrom: sr.exportingFrom,
			ImportingTo:   sr.importingTo,
			AHS:           sr.ahs,
			MFN:           sr.mfn,
		}
		c.rates[pairKey(r.ExportingFrom, r.ImportingTo)] = r
		countrySet[r.ExportingFrom] = true
		countrySet[r.ImportingTo] = true
	}
	for country := range countrySet {
		c.countries = append(c.countries, country)
	}
	sort.Strings(c.countries)

	return c
}

func variantKey(name, brand string) string { return name + "|" + brand }

func pairKey(exportingFrom, importingTo string) string {
	return exportingFrom + "|" + importingTo
}

// Products returns every product variant in catalog order.
func (c *Catalog) Products() []*domain.CatalogProduct {
	out := make([]*domain.CatalogProduct, len(c.products))
	copy(out, c.products)
	return out
}

// ProductNames returns the distinct product names, sorted.
func (c *Catalog) ProductNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Brands returns the variants of one product name, in catalog order.
func (c *Catalog) Brands(name string) []*domain.CatalogProduct {
	var out []*domain.CatalogProduct
	for _, p := range c.products {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up one variant. An empty brand selects the first variant
// listed for the product name.
func (c *Catalog) Product(name, brand string) (*domain.CatalogProduct, error) {
	if brand != "" {
		if p, ok := c.byVariant[variantKey(name, brand)]; ok {
			return p, nil
		}
		return nil, domain.NewNotFoundError("product", name+"/"+brand)
	}
	for _, p := range c.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("product", name)
}

// Countries returns every country in the rate dataset, sorted.
func (c *Catalog) Countries() []string {
	out := make([]string, len(c.countries))
	copy(out, c.countries)
	return out
}

// Rate returns the catalog rates for one directional pair.
func (c *Catalog) Rate(exportingFrom, importingTo string) (*domain.CountryPairRate, error) {
	if r, ok := c.rates[pairKey(exportingFrom, importingTo)]; ok {
		return r, nil
	}
	return nil, domain.NewNoRateDataError(exportingFrom, importingTo)
}

// Rates returns every country-pair rate in dataset order.
func (c *Catalog) Rates() []*domain.CountryPairRate {
	out := make([]*domain.CountryPairRate, 0, len(c.rates))
	for _, sr := range seedRates {
		out = append(out, c.rates[pairKey(sr.exportingFrom, sr.importingTo)])
	}
	return out
}

// BaseDefinitions derives the base-layer definitions: one per product name
// per directional pair, carrying the pair's preferred rate. IDs are
// deterministic so repeated seeding upserts in place.
func (c *Catalog) BaseDefinitions() []*domain.TariffDefinition {
	now := time.Now().UTC()
	defs := make([]*domain.TariffDefinition, 0, len(c.names)*len(seedRates))
	n := 0
	for _, name := range c.names {
		for _, sr := range seedRates {
			r := c.rates[pairKey(sr.exportingFrom, sr.importingTo)]
			rate, typ, _ := r.Preferred()
			n++
			defs = append(defs, &domain.TariffDefinition{
				ID:            fmt.Sprintf("base-%04d", n),
				Layer:         domain.LayerBase,
				OwnerID:       domain.GlobalOwner,
				Product:       name,
				ExportingFrom: r.ExportingFrom,
				ImportingTo:   r.ImportingTo,
				TariffRate:    rate,
				TariffType:    typ,
				EffectiveDate: baseEffective,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
	}
	return defs
}
