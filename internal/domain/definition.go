// Package domain defines the core interfaces and types for Skipjack.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefinitionLayer identifies which layer a tariff definition belongs to.
type DefinitionLayer string

const (
	// LayerBase holds the built-in definitions derived from the rate catalog.
	// Seeded at startup and never mutated through the API.
	LayerBase DefinitionLayer = "base"

	// LayerOverlay holds admin-managed definitions that shadow the base layer.
	LayerOverlay DefinitionLayer = "overlay"

	// LayerUser holds per-owner definitions, including simulator entries.
	LayerUser DefinitionLayer = "user"
)

// Valid reports whether l is a known layer.
func (l DefinitionLayer) Valid() bool {
	switch l {
	case LayerBase, LayerOverlay, LayerUser:
		return true
	}
	return false
}

// CalculationMode selects which definition layers a calculation consults.
type CalculationMode string

const (
	// ModeGlobal resolves from the merged overlay+base layers with catalog fallback.
	ModeGlobal CalculationMode = "global"

	// ModeUser resolves only from the caller's own definitions. No fallback.
	ModeUser CalculationMode = "user"
)

// Valid reports whether m is a known calculation mode.
func (m CalculationMode) Valid() bool {
	return m == ModeGlobal || m == ModeUser
}

// RateType classifies a tariff rate.
type RateType string

const (
	// RateAHS is the effectively applied rate, preferred when lower than MFN.
	RateAHS RateType = "AHS"

	// RateMFN is the most-favoured-nation rate.
	RateMFN RateType = "MFN"

	// RateCustom marks a rate entered directly by a user.
	RateCustom RateType = "CUSTOM"
)

// GlobalOwner is the owner scope used for the base and overlay layers.
const GlobalOwner = "global"

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date with day precision. It marshals to "2006-01-02"
// and accepts "Ongoing", "", or null as the zero date on unmarshal.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes "2006-01-02". The strings "Ongoing" and "" and
// a JSON null all decode to the zero date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" || strings.EqualFold(s, "ongoing") {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// TariffDefinition is a single tariff entry in one of the three layers.
// The (Product, ExportingFrom, ImportingTo) triple is the identity within
// a layer and owner scope: saving a definition with an existing triple
// replaces the previous entry.
type TariffDefinition struct {
	ID            string          `json:"id"`
	Layer         DefinitionLayer `json:"layer"`
	OwnerID       string          `json:"ownerId,omitempty"`
	Product       string          `json:"product"`
	ExportingFrom string          `json:"exportingFrom"`
	ImportingTo   string          `json:"importingTo"`
	TariffRate    float64         `json:"tariffRate"`
	TariffType    RateType        `json:"tariffType"`
	EffectiveDate Date            `json:"effectiveDate"`

	// ExpirationDate is nil for ongoing definitions.
	ExpirationDate *Date `json:"expirationDate,omitempty"`

	// Simulator marks user definitions created for what-if runs.
	// Only meaningful on the user layer.
	Simulator bool `json:"simulator,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Key returns the replacement identity of the definition within its layer.
func (d *TariffDefinition) Key() string {
	return DefinitionKey(d.Product, d.ExportingFrom, d.ImportingTo)
}

// DefinitionKey builds the (product, exportingFrom, importingTo) identity key.
func DefinitionKey(product, exportingFrom, importingTo string) string {
	return product + "|" + exportingFrom + "|" + importingTo
}

// Ongoing reports whether the definition has no expiration.
func (d *TariffDefinition) Ongoing() bool {
	return d.ExpirationDate == nil || d.ExpirationDate.IsZero()
}

// ActiveOn reports whether the definition is in force on the given date.
func (d *TariffDefinition) ActiveOn(on Date) bool {
	if on.Before(d.EffectiveDate) {
		return false
	}
	if d.Ongoing() {
		return true
	}
	return !on.After(*d.ExpirationDate)
}

// Validate checks the fields every layer requires.
func (d *TariffDefinition) Validate() error {
	if d.Product == "" {
		return NewValidationError("product", "product is required")
	}
	if d.ExportingFrom == "" {
		return NewValidationError("exportingFrom", "exporting country is required")
	}
	if d.ImportingTo == "" {
		return NewValidationError("importingTo", "importing country is required")
	}
	if d.ExportingFrom == d.ImportingTo {
		return NewValidationError("importingTo", "exporting and importing country must differ")
	}
	if d.TariffRate < 0 {
		return NewValidationError("tariffRate", "tariff rate must not be negative")
	}
	if !d.Layer.Valid() {
		return NewValidationError("layer", fmt.Sprintf("unknown layer %q", d.Layer))
	}
	if d.Layer == LayerUser && d.OwnerID == "" {
		return NewValidationError("ownerId", "user definitions require an owner")
	}
	if d.Simulator && d.Layer != LayerUser {
		return NewValidationError("simulator", "simulator flag is only valid on the user layer")
	}
	if d.EffectiveDate.IsZero() {
		return NewValidationError("effectiveDate", "effective date is required")
	}
	if !d.Ongoing() && d.ExpirationDate.Before(d.EffectiveDate) {
		return NewValidationError("expirationDate", "expiration date precedes effective date")
	}
	return nil
}

// ResolvedRate is the outcome of a rate resolution: the rate that applies
// to a (product, exporting, importing) triple plus where it came from.
type ResolvedRate struct {
	Product       string   `json:"product"`
	ExportingFrom string   `json:"exportingFrom"`
	ImportingTo   string   `json:"importingTo"`
	Rate          float64  `json:"rate"`
	Type          RateType `json:"type"`

	// Source names the layer that supplied the rate: a DefinitionLayer
	// value, or SourceCatalog for the country-pair fallback.
	Source        string `json:"source"`
	EffectiveDate Date   `json:"effectiveDate"`
}

// SourceCatalog marks rates taken from the country-pair catalog fallback.
const SourceCatalog = "catalog"
