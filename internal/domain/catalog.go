package domain

// CatalogProduct is a tradeable product variant: a product name plus a
// brand, with its reference unit cost.
type CatalogProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	UnitCost float64 `json:"unitCost"`
	Unit     string  `json:"unit"`
	Currency string  `json:"currency"`
}

// CountryPairRate holds the catalog AHS and MFN rates for one directional
// (exporting, importing) country pair. Rates are percentages.
type CountryPairRate struct {
	ExportingFrom string  `json:"exportingFrom"`
	ImportingTo   string  `json:"importingTo"`
	AHS           float64 `json:"ahs"`
	MFN           float64 `json:"mfn"`
}

// Preferred returns the rate the catalog fallback selects for the pair:
// AHS when it undercuts MFN, MFN otherwise. Anomalous reports the
// ahs > mfn case, which callers surface in logs before using MFN.
func (r *CountryPairRate) Preferred() (rate float64, typ RateType, anomalous bool) {
	switch {
	case r.AHS < r.MFN:
		return r.AHS, RateAHS, false
	case r.AHS > r.MFN:
		return r.MFN, RateMFN, true
	default:
		return r.MFN, RateMFN, false
	}
}

// ExchangeRate is one currency's conversion factor against the base currency.
type ExchangeRate struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}
