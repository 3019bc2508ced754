// Package calc computes import cost estimates from resolved tariff rates.
package calc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/resolve"
)

// Converter turns an amount in the base currency into the target currency.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// Calculator produces cost breakdowns for calculation requests.
type Calculator struct {
	catalog   *catalog.Catalog
	resolver  *resolve.Resolver
	converter Converter
}

// New creates a calculator. converter may be nil, which disables currency
// conversion.
func New(cat *catalog.Catalog, res *resolve.Resolver, converter Converter) *Calculator {
	return &Calculator{catalog: cat, resolver: res, converter: converter}
}

// Calculate validates the request, resolves the applicable rate, and
// returns the full cost breakdown.
//
// The arithmetic is exact: productCost = unitCost x quantity,
// tariffAmount = productCost x rate / 100, and totalCost is always their
// exact sum.
func (c *Calculator) Calculate(ctx context.Context, ownerID string, req *domain.CalculationRequest) (*domain.CalculationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		unitCost float64
		unit     string
		brand    = req.Brand
	)
	if req.CustomCost != nil {
		unitCost = *req.CustomCost
		// Catalog lookup is optional with a custom cost: user definitions
		// may reference products outside the catalog.
		if p, err := c.catalog.Product(req.Product, req.Brand); err == nil {
			unit = p.Unit
			brand = p.Brand
		}
	} else {
		p, err := c.catalog.Product(req.Product, req.Brand)
		if err != nil {
			return nil, err
		}
		unitCost = p.UnitCost
		unit = p.Unit
		brand = p.Brand
	}

	resolved, err := c.resolver.Resolve(ctx, resolve.Query{
		OwnerID:       ownerID,
		Product:       req.Product,
		ExportingFrom: req.ExportingFrom,
		ImportingTo:   req.ImportingTo,
		Mode:          req.Mode,
		Simulator:     req.Simulator,
	})
	if err != nil {
		return nil, err
	}

	cost := decimal.NewFromFloat(unitCost)
	qty := decimal.NewFromFloat(req.Quantity)
	rate := decimal.NewFromFloat(resolved.Rate)

	productCost := cost.Mul(qty)
	tariffAmount := productCost.Mul(rate).Div(decimal.NewFromInt(100))
	totalCost := productCost.Add(tariffAmount)

	currency := catalog.BaseCurrency
	pc, _ := productCost.Float64()
	ta, _ := tariffAmount.Float64()
	tc, _ := totalCost.Float64()

	if req.Currency != "" && req.Currency != currency {
		if c.converter == nil {
			return nil, domain.NewValidationError("currency", "currency conversion is not enabled")
		}
		if pc, err = c.converter.Convert(ctx, pc, currency, req.Currency); err != nil {
			return nil, err
		}
		if ta, err = c.converter.Convert(ctx, ta, currency, req.Currency); err != nil {
			return nil, err
		}
		if unitCost, err = c.converter.Convert(ctx, unitCost, currency, req.Currency); err != nil {
			return nil, err
		}
		tc = pc + ta
		currency = req.Currency
	}

	return &domain.CalculationResult{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Product:       req.Product,
		Brand:         brand,
		ExportingFrom: req.ExportingFrom,
		ImportingTo:   req.ImportingTo,
		Mode:          req.Mode,
		Quantity:      req.Quantity,
		UnitCost:      unitCost,
		Unit:          unit,
		Currency:      currency,
		TariffRate:    resolved.Rate,
		TariffType:    resolved.Type,
		RateSource:    resolved.Source,
		ProductCost:   pc,
		TariffAmount:  ta,
		TotalCost:     tc,
		Breakdown: []domain.BreakdownLine{
			{
				Description: "Product Cost",
				Type:        "Base Cost",
				Rate:        "100%",
				Amount:      pc,
			},
			{
				Description: fmt.Sprintf("Import Tariff (%s)", resolved.Type),
				Type:        "Tariff",
				Rate:        fmt.Sprintf("%.2f%%", resolved.Rate),
				Amount:      ta,
			},
		},
		PerformedAt: time.Now().UTC(),
	}, nil
}
