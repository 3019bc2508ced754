package domain

// TradeMode selects the direction of a cross-country comparison.
type TradeMode string

const (
	// TradeImport compares tariffs on goods entering the primary country.
	TradeImport TradeMode = "import"

	// TradeExport compares tariffs on goods leaving the primary country.
	TradeExport TradeMode = "export"
)

// Valid reports whether m is a known trade mode.
func (m TradeMode) Valid() bool {
	return m == TradeImport || m == TradeExport
}

// ComparisonRequest asks for one product's tariff rates between a primary
// country and a set of counterpart countries. Comparisons always resolve
// in global mode.
type ComparisonRequest struct {
	Product        string      `json:"product"`
	Country        string      `json:"country"`
	TradeMode      TradeMode   `json:"tradeMode"`
	OtherCountries []string    `json:"otherCountries,omitempty"`
	TimeFilter     *TimeFilter `json:"timeFilter,omitempty"`
}

// Validate checks the comparison request fields.
func (r *ComparisonRequest) Validate() error {
	if r.Product == "" {
		return NewValidationError("product", "product is required")
	}
	if r.Country == "" {
		return NewValidationError("country", "primary country is required")
	}
	if !r.TradeMode.Valid() {
		return NewValidationError("tradeMode", "trade mode must be \"import\" or \"export\"")
	}
	for _, c := range r.OtherCountries {
		if c == r.Country {
			return NewValidationError("otherCountries", "counterpart list must not contain the primary country")
		}
	}
	if r.TimeFilter != nil {
		if err := r.TimeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ComparisonResult is one counterpart country's row in a comparison.
type ComparisonResult struct {
	Country        string    `json:"country"`
	TariffRate     float64   `json:"tariffRate"`
	TariffType     RateType  `json:"tariffType"`
	EffectiveDate  Date      `json:"effectiveDate"`
	Product        string    `json:"product"`
	TradeDirection TradeMode `json:"tradeDirection"`
}
