// Package compare fans one product's tariff lookup out across country
// pairs and collects the per-country rates.
package compare

import (
	"context"
	"log/slog"
	"sync"

	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/resolve"
)

// Engine runs cross-country tariff comparisons. Comparisons always resolve
// in global mode.
type Engine struct {
	resolver   *resolve.Resolver
	catalog    *catalog.Catalog
	logger     *slog.Logger
	maxWorkers int
}

// NewEngine creates a comparison engine.
func NewEngine(res *resolve.Resolver, cat *catalog.Catalog, logger *slog.Logger, maxWorkers int) *Engine {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resolver: res, catalog: cat, logger: logger, maxWorkers: maxWorkers}
}

// Compare resolves the product's rate against every counterpart country in
// parallel. In import mode the primary country applies the tariff; in
// export mode the counterpart does. Counterparts without a resolvable rate
// are dropped from the result, not reported as errors.
func (e *Engine) Compare(ctx context.Context, req *domain.ComparisonRequest) ([]*domain.ComparisonResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	others := req.OtherCountries
	if len(others) == 0 {
		for _, c := range e.catalog.Countries() {
			if c != req.Country {
				others = append(others, c)
			}
		}
	}

	results := make([]*domain.ComparisonResult, len(others))
	var wg sync.WaitGroup

	// Limit concurrency with semaphore
	sem := make(chan struct{}, e.maxWorkers)

	for i, other := range others {
		wg.Add(1)
		go func(idx int, counterpart string) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			results[idx] = e.compareOne(ctx, req, counterpart)
		}(i, other)
	}

	wg.Wait()

	out := make([]*domain.ComparisonResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (e *Engine) compareOne(ctx context.Context, req *domain.ComparisonRequest, counterpart string) *domain.ComparisonResult {
	exportingFrom, importingTo := counterpart, req.Country
	if req.TradeMode == domain.TradeExport {
		exportingFrom, importingTo = req.Country, counterpart
	}

	resolved, err := e.resolver.Resolve(ctx, resolve.Query{
		Product:       req.Product,
		ExportingFrom: exportingFrom,
		ImportingTo:   importingTo,
		Mode:          domain.ModeGlobal,
		TimeFilter:    req.TimeFilter,
	})
	if err != nil {
		e.logger.Debug("dropping counterpart from comparison",
			"product", req.Product,
			"counterpart", counterpart,
			"error", err)
		return nil
	}

	return &domain.ComparisonResult{
		Country:        counterpart,
		TariffRate:     resolved.Rate,
		TariffType:     resolved.Type,
		EffectiveDate:  resolved.EffectiveDate,
		Product:        req.Product,
		TradeDirection: req.TradeMode,
	}
}
