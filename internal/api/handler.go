package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opensource-trade/skipjack/internal/calc"
	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/compare"
	"github.com/opensource-trade/skipjack/internal/currency"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/history"
	"github.com/opensource-trade/skipjack/internal/store"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo       domain.Repository
	cache      domain.Cache
	bus        domain.EventBus
	store      *store.Store
	catalog    *catalog.Catalog
	calculator *calc.Calculator
	comparer   *compare.Engine
	currency   *currency.Service
	history    *history.Service
	version    string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, st *store.Store, cat *catalog.Catalog, calculator *calc.Calculator, comparer *compare.Engine, cur *currency.Service, hist *history.Service, version string) *Handler {
	return &Handler{
		repo:       repo,
		cache:      cache,
		bus:        bus,
		store:      st,
		catalog:    cat,
		calculator: calculator,
		comparer:   comparer,
		currency:   cur,
		history:    hist,
		version:    version,
	}
}

// CalculateResponse is the response for POST /calculate.
type CalculateResponse struct {
	*domain.CalculationResult
	Metadata struct {
		TraceID string `json:"traceId"`
		TotalMs int64  `json:"totalMs"`
		Version string `json:"version"`
	} `json:"metadata"`
}

// Calculate handles POST /calculate requests.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	userID := GetUserID(ctx)
	traceID := GetTraceID(ctx)

	var req domain.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	result, err := h.calculator.Calculate(ctx, userID, &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Hand off to the worker for persistence. The payload carries the
	// owner; the bus subject is the shared scope the worker listens on.
	if h.bus != nil {
		payload, err := json.Marshal(result)
		if err == nil {
			if err := h.bus.Publish(ctx, domain.GlobalOwner, domain.TopicCalculationPerformed, payload); err != nil {
				slog.Error("failed to publish calculation event", "error", err)
			}
		}
	}

	resp := CalculateResponse{CalculationResult: result}
	resp.Metadata.TraceID = traceID
	resp.Metadata.TotalMs = time.Since(start).Milliseconds()
	resp.Metadata.Version = h.version

	writeJSON(w, http.StatusOK, resp)
}

// Compare handles POST /compare requests.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	results, err := h.comparer.Compare(ctx, &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.bus != nil {
		event := map[string]interface{}{
			"product":   req.Product,
			"country":   req.Country,
			"tradeMode": req.TradeMode,
			"count":     len(results),
		}
		if payload, err := json.Marshal(event); err == nil {
			if err := h.bus.Publish(ctx, domain.GlobalOwner, domain.TopicComparisonPerformed, payload); err != nil {
				slog.Error("failed to publish comparison event", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product":   req.Product,
		"country":   req.Country,
		"tradeMode": req.TradeMode,
		"results":   results,
		"count":     len(results),
	})
}

// DefinitionRequest is the request body for creating or updating a
// tariff definition.
type DefinitionRequest struct {
	ID             string       `json:"id,omitempty"`
	Product        string       `json:"product"`
	ExportingFrom  string       `json:"exportingFrom"`
	ImportingTo    string       `json:"importingTo"`
	TariffRate     float64      `json:"tariffRate"`
	TariffType     string       `json:"tariffType,omitempty"`
	EffectiveDate  domain.Date  `json:"effectiveDate"`
	ExpirationDate *domain.Date `json:"expirationDate,omitempty"`
	Simulator      bool         `json:"simulator,omitempty"`
}

// UpsertDefinition handles POST /definitions/{layer}. The overlay layer
// requires the admin role; the base layer is read-only.
func (h *Handler) UpsertDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)

	layer := domain.DefinitionLayer(chi.URLParam(r, "layer"))
	if !layer.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown definition layer",
		})
		return
	}
	if layer == domain.LayerBase {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "base definitions are read-only",
		})
		return
	}
	if layer == domain.LayerOverlay && GetUserRole(ctx) != RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "overlay definitions require the admin role",
		})
		return
	}

	var req DefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	def := &domain.TariffDefinition{
		ID:             req.ID,
		Layer:          layer,
		OwnerID:        userID,
		Product:        req.Product,
		ExportingFrom:  req.ExportingFrom,
		ImportingTo:    req.ImportingTo,
		TariffRate:     req.TariffRate,
		TariffType:     domain.RateType(req.TariffType),
		EffectiveDate:  req.EffectiveDate,
		ExpirationDate: req.ExpirationDate,
		Simulator:      req.Simulator,
	}
	if def.TariffType == "" {
		def.TariffType = domain.RateCustom
	}

	saved, err := h.store.Upsert(def)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveDefinition(ctx, saved.OwnerID, saved); err != nil {
			slog.Error("failed to persist definition", "id", saved.ID, "error", err)
		}
	}

	if h.bus != nil {
		if payload, err := json.Marshal(saved); err == nil {
			if err := h.bus.Publish(ctx, domain.GlobalOwner, domain.TopicDefinitionChanged, payload); err != nil {
				slog.Error("failed to publish definition event", "error", err)
			}
		}
	}

	slog.Info("definition saved",
		"id", saved.ID,
		"layer", saved.Layer,
		"product", saved.Product,
		"exporting_from", saved.ExportingFrom,
		"importing_to", saved.ImportingTo,
	)
	writeJSON(w, http.StatusCreated, saved)
}

// ListDefinitions handles GET /definitions/{layer}.
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	// "global" is not a layer: it lists the merged global view, with
	// overlay entries substituting the base entries they shadow.
	if chi.URLParam(r, "layer") == "global" {
		defs := h.store.ListMerged()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"definitions": defs,
			"count":       len(defs),
		})
		return
	}

	layer := domain.DefinitionLayer(chi.URLParam(r, "layer"))
	if !layer.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown definition layer",
		})
		return
	}

	var simulator *bool
	if v := r.URL.Query().Get("simulator"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "simulator must be true or false",
			})
			return
		}
		simulator = &b
	}

	defs := h.store.List(userID, layer, simulator)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"definitions": defs,
		"count":       len(defs),
	})
}

// DeleteDefinition handles DELETE /definitions/{id}.
func (h *Handler) DeleteDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)
	defID := chi.URLParam(r, "id")

	if defID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "definition id is required",
		})
		return
	}

	def, err := h.store.Get(userID, defID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if def.Layer == domain.LayerOverlay && GetUserRole(ctx) != RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "overlay definitions require the admin role",
		})
		return
	}

	if err := h.store.Delete(userID, defID); err != nil {
		writeDomainError(w, err)
		return
	}

	if h.repo != nil {
		if err := h.repo.DeleteDefinition(ctx, def.OwnerID, defID); err != nil {
			slog.Error("failed to delete persisted definition", "id", defID, "error", err)
		}
	}

	slog.Info("definition deleted", "id", defID, "layer", def.Layer)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "definition deleted",
	})
}

// GetCalculation retrieves a stored calculation by ID.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)
	calcID := chi.URLParam(r, "id")

	if calcID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "calculation id is required",
		})
		return
	}

	if h.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "history not available",
		})
		return
	}

	result, err := h.history.Get(ctx, userID, calcID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// History lists the caller's recent calculations.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)

	if h.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "history not available",
		})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "since must be an RFC 3339 timestamp",
			})
			return
		}
		since = t
	}

	results, err := h.history.Recent(ctx, userID, since, limit)
	if err != nil {
		slog.Error("failed to list calculations", "owner_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list calculations",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"calculations": results,
		"count":        len(results),
	})
}

// ListCountries returns the countries the catalog covers.
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries := h.catalog.Countries()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"countries": countries,
		"count":     len(countries),
	})
}

// ListProducts returns the catalog's product names.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	names := h.catalog.ProductNames()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": names,
		"count":    len(names),
	})
}

// ListBrands returns the brands available for a product.
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	if product == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "product is required",
		})
		return
	}

	brands := h.catalog.Brands(product)
	if len(brands) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "product not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
		"brands":  brands,
		"count":   len(brands),
	})
}

// ListCurrencies returns the supported display currencies and their
// rates against the base currency.
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	if h.currency == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "currency conversion not available",
		})
		return
	}

	names, rates := h.currency.Supported(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":       catalog.BaseCurrency,
		"currencies": names,
		"rates":      rates,
	})
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check repository health
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// writeDomainError maps domain error kinds to HTTP statuses. Validation
// failures return 400, missing definitions and rate data return 422, and
// missing entities return 404. Anything unclassified is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		switch derr.Kind {
		case domain.KindValidation:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": derr.Message, "field": derr.Key})
		case domain.KindNoDefinition, domain.KindNoRateData:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": derr.Message, "key": derr.Key})
		case domain.KindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": derr.Message})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": derr.Message})
		}
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
