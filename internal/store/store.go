// Package store holds the in-memory layered view of tariff definitions.
// All three layers are kept indexed for lookup; the repository remains the
// durable copy and the store is reloaded from it on startup.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opensource-trade/skipjack/internal/domain"
)

// Store indexes tariff definitions by layer, owner, and lookup key.
// Within a layer and owner scope, the (product, exportingFrom, importingTo)
// key identifies an entry: saving the same key replaces the previous entry.
// Simulator entries on the user layer form a parallel scope and never
// shadow an owner's real definitions.
type Store struct {
	mu      sync.RWMutex
	base    map[string]*domain.TariffDefinition
	overlay map[string]*domain.TariffDefinition
	user    map[string]map[string]*domain.TariffDefinition
	byID    map[string]*domain.TariffDefinition
}

// New creates an empty store.
func New() *Store {
	return &Store{
		base:    make(map[string]*domain.TariffDefinition),
		overlay: make(map[string]*domain.TariffDefinition),
		user:    make(map[string]map[string]*domain.TariffDefinition),
		byID:    make(map[string]*domain.TariffDefinition),
	}
}

// userKey scopes the lookup key so simulator entries live beside, not in
// place of, an owner's real definitions.
func userKey(def *domain.TariffDefinition) string {
	k := def.Key()
	if def.Simulator {
		return k + "|sim"
	}
	return k
}

// SeedBase replaces the base layer. Used at startup; the base layer is
// never mutated through Upsert.
func (s *Store) SeedBase(defs []*domain.TariffDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.base {
		delete(s.byID, old.ID)
	}
	s.base = make(map[string]*domain.TariffDefinition, len(defs))
	for _, def := range defs {
		s.base[def.Key()] = def
		s.byID[def.ID] = def
	}
}

// Load places a definition into its layer without replace bookkeeping
// beyond the key. Used when reloading persisted definitions on startup.
func (s *Store) Load(def *domain.TariffDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(def)
	return nil
}

// Upsert validates and stores a definition, replacing any previous entry
// with the same key in the same scope. Returns the stored definition with
// ID and timestamps assigned. Base-layer writes are rejected.
func (s *Store) Upsert(def *domain.TariffDefinition) (*domain.TariffDefinition, error) {
	if def.Layer == domain.LayerBase {
		return nil, domain.NewValidationError("layer", "base definitions are read-only")
	}
	if def.Layer == domain.LayerOverlay {
		def.OwnerID = domain.GlobalOwner
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if def.ID == "" {
		def.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}
	def.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(def)
	return def, nil
}

// put stores def in its layer map. Caller holds the write lock.
func (s *Store) put(def *domain.TariffDefinition) {
	switch def.Layer {
	case domain.LayerBase:
		s.replace(s.base, def.Key(), def)
	case domain.LayerOverlay:
		s.replace(s.overlay, def.Key(), def)
	case domain.LayerUser:
		owned := s.user[def.OwnerID]
		if owned == nil {
			owned = make(map[string]*domain.TariffDefinition)
			s.user[def.OwnerID] = owned
		}
		s.replace(owned, userKey(def), def)
	}
}

func (s *Store) replace(m map[string]*domain.TariffDefinition, key string, def *domain.TariffDefinition) {
	if old, ok := m[key]; ok {
		delete(s.byID, old.ID)
	}
	m[key] = def
	s.byID[def.ID] = def
}

// Get returns a definition by ID. Owners only see the global layers and
// their own user definitions.
func (s *Store) Get(ownerID, defID string) (*domain.TariffDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.byID[defID]
	if !ok || !visibleTo(def, ownerID) {
		return nil, domain.NewNotFoundError("definition", defID)
	}
	return def, nil
}

// Delete removes a definition by ID. Base definitions cannot be deleted.
func (s *Store) Delete(ownerID, defID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.byID[defID]
	if !ok || !visibleTo(def, ownerID) {
		return domain.NewNotFoundError("definition", defID)
	}
	switch def.Layer {
	case domain.LayerBase:
		return domain.NewValidationError("layer", "base definitions are read-only")
	case domain.LayerOverlay:
		delete(s.overlay, def.Key())
	case domain.LayerUser:
		if owned := s.user[def.OwnerID]; owned != nil {
			delete(owned, userKey(def))
		}
	}
	delete(s.byID, defID)
	return nil
}

func visibleTo(def *domain.TariffDefinition, ownerID string) bool {
	if def.Layer != domain.LayerUser {
		return true
	}
	return def.OwnerID == ownerID
}

// List returns the definitions of one layer. For the user layer, only the
// owner's entries are returned; simulator filters to simulator entries
// when non-nil.
func (s *Store) List(ownerID string, layer domain.DefinitionLayer, simulator *bool) []*domain.TariffDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TariffDefinition
	switch layer {
	case domain.LayerBase:
		for _, def := range s.base {
			out = append(out, def)
		}
	case domain.LayerOverlay:
		for _, def := range s.overlay {
			out = append(out, def)
		}
	case domain.LayerUser:
		for _, def := range s.user[ownerID] {
			if simulator != nil && def.Simulator != *simulator {
				continue
			}
			out = append(out, def)
		}
	}
	return out
}

// ListMerged returns the effective global view: every base entry, with
// overlay entries substituting base entries that share their lookup key,
// plus overlay entries with no base counterpart.
func (s *Store) ListMerged() []*domain.TariffDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TariffDefinition, 0, len(s.base)+len(s.overlay))
	for key, def := range s.base {
		if shadow, ok := s.overlay[key]; ok {
			out = append(out, shadow)
			continue
		}
		out = append(out, def)
	}
	for key, def := range s.overlay {
		if _, ok := s.base[key]; !ok {
			out = append(out, def)
		}
	}
	return out
}

// UserDefinition returns the owner's definition for the lookup triple, in
// the real or simulator scope. The global layers are never consulted.
func (s *Store) UserDefinition(ownerID, product, exportingFrom, importingTo string, simulator bool) (*domain.TariffDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.user[ownerID]
	if owned == nil {
		return nil, false
	}
	key := domain.DefinitionKey(product, exportingFrom, importingTo)
	if simulator {
		key += "|sim"
	}
	def, ok := owned[key]
	return def, ok
}

// GlobalCandidates returns the overlay and base entries for the lookup
// triple, overlay first. Callers apply date filtering and precedence.
func (s *Store) GlobalCandidates(product, exportingFrom, importingTo string) []*domain.TariffDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := domain.DefinitionKey(product, exportingFrom, importingTo)
	var out []*domain.TariffDefinition
	if def, ok := s.overlay[key]; ok {
		out = append(out, def)
	}
	if def, ok := s.base[key]; ok {
		out = append(out, def)
	}
	return out
}

// Counts returns the number of entries per layer. User counts span all owners.
func (s *Store) Counts() (base, overlay, user int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, owned := range s.user {
		user += len(owned)
	}
	return len(s.base), len(s.overlay), user
}

// Close clears the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = make(map[string]*domain.TariffDefinition)
	s.overlay = make(map[string]*domain.TariffDefinition)
	s.user = make(map[string]map[string]*domain.TariffDefinition)
	s.byID = make(map[string]*domain.TariffDefinition)
	return nil
}
