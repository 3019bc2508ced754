// Package resolve implements tariff rate resolution across the definition
// layers and the country-pair catalog fallback.
package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/store"
)

// Resolver answers "which tariff rate applies" for a lookup triple.
type Resolver struct {
	store   *store.Store
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New creates a resolver over the definition store and rate catalog.
func New(st *store.Store, cat *catalog.Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: st, catalog: cat, logger: logger}
}

// Query describes one resolution request.
type Query struct {
	OwnerID       string
	Product       string
	ExportingFrom string
	ImportingTo   string
	Mode          domain.CalculationMode

	// Simulator selects the owner's simulator scope in user mode.
	Simulator bool

	// AsOf is the date the rate must be in force on. Zero means today.
	AsOf domain.Date

	// TimeFilter restricts resolution to definitions whose effective date
	// falls in the period. Global mode only; AsOf is ignored when set.
	TimeFilter *domain.TimeFilter
}

// Resolve returns the applicable rate for the query.
//
// User mode consults only the owner's definitions: an exact match on the
// triple, or a no-definition error. There is no fallback.
//
// Global mode consults the overlay layer first, then base, then falls back
// to the country-pair catalog. The catalog picks AHS when it is below MFN
// and MFN otherwise; a pair whose AHS exceeds MFN is logged before MFN is
// used.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*domain.ResolvedRate, error) {
	asOf := q.AsOf
	if asOf.IsZero() {
		now := time.Now().UTC()
		asOf = domain.NewDate(now.Year(), now.Month(), now.Day())
	}

	switch q.Mode {
	case domain.ModeUser:
		return r.resolveUser(q, asOf)
	case domain.ModeGlobal:
		return r.resolveGlobal(q, asOf)
	}
	return nil, domain.NewValidationError("mode", "mode must be \"global\" or \"user\"")
}

func (r *Resolver) resolveUser(q Query, asOf domain.Date) (*domain.ResolvedRate, error) {
	def, ok := r.store.UserDefinition(q.OwnerID, q.Product, q.ExportingFrom, q.ImportingTo, q.Simulator)
	if !ok || !def.ActiveOn(asOf) {
		return nil, domain.NewNoDefinitionError(q.Product, q.ExportingFrom, q.ImportingTo)
	}
	return rateFrom(def), nil
}

func (r *Resolver) resolveGlobal(q Query, asOf domain.Date) (*domain.ResolvedRate, error) {
	candidates := r.store.GlobalCandidates(q.Product, q.ExportingFrom, q.ImportingTo)

	if q.TimeFilter != nil {
		// Period resolution: latest effective date inside the filter wins.
		// Candidates arrive overlay-first, so ties keep the overlay entry.
		var best *domain.TariffDefinition
		for _, def := range candidates {
			if !q.TimeFilter.Contains(def.EffectiveDate) {
				continue
			}
			if best == nil || def.EffectiveDate.After(best.EffectiveDate) {
				best = def
			}
		}
		if best == nil {
			return nil, domain.NewNoDefinitionError(q.Product, q.ExportingFrom, q.ImportingTo)
		}
		return rateFrom(best), nil
	}

	// Point-in-time resolution: overlay shadows base.
	for _, def := range candidates {
		if def.ActiveOn(asOf) {
			return rateFrom(def), nil
		}
	}
	return r.catalogFallback(q)
}

func (r *Resolver) catalogFallback(q Query) (*domain.ResolvedRate, error) {
	pair, err := r.catalog.Rate(q.ExportingFrom, q.ImportingTo)
	if err != nil {
		return nil, err
	}
	rate, typ, anomalous := pair.Preferred()
	if anomalous {
		r.logger.Warn("catalog pair has AHS above MFN, using MFN",
			"exportingFrom", q.ExportingFrom,
			"importingTo", q.ImportingTo,
			"ahs", pair.AHS,
			"mfn", pair.MFN)
	}
	return &domain.ResolvedRate{
		Product:       q.Product,
		ExportingFrom: q.ExportingFrom,
		ImportingTo:   q.ImportingTo,
		Rate:          rate,
		Type:          typ,
		Source:        domain.SourceCatalog,
		EffectiveDate: domain.NewDate(2022, time.January, 1),
	}, nil
}

func rateFrom(def *domain.TariffDefinition) *domain.ResolvedRate {
	return &domain.ResolvedRate{
		Product:       def.Product,
		ExportingFrom: def.ExportingFrom,
		ImportingTo:   def.ImportingTo,
		Rate:          def.TariffRate,
		Type:          def.TariffType,
		Source:        string(def.Layer),
		EffectiveDate: def.EffectiveDate,
	}
}
