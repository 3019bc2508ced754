package domain

import "time"

// CalculationRequest is a single import-cost estimation request.
type CalculationRequest struct {
	Product       string          `json:"product"`
	Brand         string          `json:"brand,omitempty"`
	ExportingFrom string          `json:"exportingFrom"`
	ImportingTo   string          `json:"importingTo"`
	Quantity      float64         `json:"quantity"`
	Mode          CalculationMode `json:"mode"`

	// CustomCost overrides the catalog unit cost when set.
	CustomCost *float64 `json:"customCost,omitempty"`

	// Simulator restricts user-mode resolution to simulator definitions.
	Simulator bool `json:"simulator,omitempty"`

	// Currency converts the monetary outputs when set. Defaults to the
	// catalog base currency.
	Currency string `json:"currency,omitempty"`
}

// Validate checks the request fields shared by both calculation modes.
func (r *CalculationRequest) Validate() error {
	if r.Product == "" {
		return NewValidationError("product", "product is required")
	}
	if r.ExportingFrom == "" {
		return NewValidationError("exportingFrom", "exporting country is required")
	}
	if r.ImportingTo == "" {
		return NewValidationError("importingTo", "importing country is required")
	}
	if r.ExportingFrom == r.ImportingTo {
		return NewValidationError("importingTo", "exporting and importing country must differ")
	}
	if r.Quantity <= 0 {
		return NewValidationError("quantity", "quantity must be positive")
	}
	if r.CustomCost != nil && *r.CustomCost < 0 {
		return NewValidationError("customCost", "custom cost must not be negative")
	}
	if !r.Mode.Valid() {
		return NewValidationError("mode", "mode must be \"global\" or \"user\"")
	}
	return nil
}

// BreakdownLine is one row of a calculation cost breakdown.
type BreakdownLine struct {
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Rate        string  `json:"rate"`
	Amount      float64 `json:"amount"`
}

// CalculationResult is the full outcome of a cost calculation.
type CalculationResult struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId,omitempty"`
	Product       string          `json:"product"`
	Brand         string          `json:"brand,omitempty"`
	ExportingFrom string          `json:"exportingFrom"`
	ImportingTo   string          `json:"importingTo"`
	Mode          CalculationMode `json:"mode"`

	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
	Unit     string  `json:"unit,omitempty"`
	Currency string  `json:"currency"`

	TariffRate float64  `json:"tariffRate"`
	TariffType RateType `json:"tariffType"`
	RateSource string   `json:"rateSource"`

	ProductCost  float64 `json:"productCost"`
	TariffAmount float64 `json:"tariffAmount"`
	TotalCost    float64 `json:"totalCost"`

	Breakdown []BreakdownLine `json:"breakdown"`

	PerformedAt time.Time `json:"performedAt"`
}
