package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

// ChainConfig names the primary model and its ordered fallbacks
type ChainConfig struct {
	Primary   string
	Fallbacks []string
}

// ChainSource re-reads the chain on Reload
type ChainSource func() (ChainConfig, error)

type Config struct {
	Tracker ports.HealthTracker
	Source  ChainSource
	Catalog []domain.ModelDescriptor
	Chain   ChainConfig
}

// ModelRegistry layers a configuration driven primary/fallback chain and
// health marks over an immutable catalog
type ModelRegistry struct {
	catalog   map[domain.ModelID]domain.ModelDescriptor
	tracker   ports.HealthTracker
	source    ChainSource
	logger    logger.StyledLogger
	ordered   []domain.ModelDescriptor
	fallbacks []domain.ModelDescriptor
	primary   domain.ModelDescriptor
	mu        sync.RWMutex
}

var _ ports.ModelRegistry = (*ModelRegistry)(nil)

func NewModelRegistry(cfg Config, log logger.StyledLogger) (*ModelRegistry, error) {
	if len(cfg.Catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	if cfg.Tracker == nil {
		return nil, fmt.Errorf("model registry requires a health tracker")
	}

	r := &ModelRegistry{
		catalog: make(map[domain.ModelID]domain.ModelDescriptor, len(cfg.Catalog)),
		ordered: make([]domain.ModelDescriptor, 0, len(cfg.Catalog)),
		tracker: cfg.Tracker,
		source:  cfg.Source,
		logger:  log,
	}
	for _, model := range cfg.Catalog {
		if _, dup := r.catalog[model.ID]; dup {
			return nil, &domain.ConfigValidationError{Field: "catalog", Value: model.ID, Reason: "duplicate model id"}
		}
		r.catalog[model.ID] = model
		r.ordered = append(r.ordered, model)
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		return r.ordered[i].ID < r.ordered[j].ID
	})

	r.primary, r.fallbacks = r.resolveChain(cfg.Chain)
	r.logger.InfoWithModel("Model registry ready, primary", r.primary.ID.String(),
		"fallbacks", len(r.fallbacks),
		"catalog", len(r.ordered))

	return r, nil
}

func (r *ModelRegistry) GetPrimary() domain.ModelDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

func (r *ModelRegistry) GetFallbackChain() []domain.ModelDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]domain.ModelDescriptor, len(r.fallbacks))
	copy(chain, r.fallbacks)
	return chain
}

// GetAll returns every catalog model ordered by id
func (r *ModelRegistry) GetAll() []domain.ModelDescriptor {
	all := make([]domain.ModelDescriptor, len(r.ordered))
	copy(all, r.ordered)
	return all
}

func (r *ModelRegistry) Get(id domain.ModelID) (domain.ModelDescriptor, bool) {
	model, ok := r.catalog[id]
	return model, ok
}

func (r *ModelRegistry) IsKnown(id domain.ModelID) bool {
	_, ok := r.catalog[id]
	return ok
}

func (r *ModelRegistry) MarkUnhealthy(id domain.ModelID, duration time.Duration, reason string) {
	mark := r.tracker.MarkUnhealthy(id, duration, reason)
	r.logger.WarnWithContext("Model marked unhealthy", id.String(), logger.LogContext{
		UserArgs:     []any{"until", mark.UnhealthyUntil.Format(time.RFC3339)},
		DetailedArgs: []any{"reason", reason, "duration", duration.String(), "known", r.IsKnown(id)},
	})
}

func (r *ModelRegistry) IsHealthy(id domain.ModelID) bool {
	return r.tracker.IsHealthy(id)
}

func (r *ModelRegistry) RecordOutcome(id domain.ModelID, success bool) bool {
	_, wasMarked := r.tracker.Mark(id)
	tripped := r.tracker.RecordOutcome(id, success)
	switch {
	case tripped:
		r.logger.WarnWithModel("Consecutive failures, marking unhealthy", id.String())
	case success && wasMarked:
		r.logger.InfoHealthStatus("Success reported while marked,", id.String(), r.tracker.IsHealthy(id))
	}
	return tripped
}

func (r *ModelRegistry) GetHealthy() domain.ModelDescriptor {
	r.mu.RLock()
	primary := r.primary
	fallbacks := r.fallbacks
	r.mu.RUnlock()

	if r.tracker.IsHealthy(primary.ID) {
		return primary
	}
	for _, fallback := range fallbacks {
		if r.tracker.IsHealthy(fallback.ID) {
			return fallback
		}
	}

	r.logger.Critical("No healthy model available, failing open to primary",
		"primary", primary.ID,
		"fallbacks", len(fallbacks))
	return primary
}

func (r *ModelRegistry) HealthSnapshot() []domain.ModelHealth {
	r.mu.RLock()
	roles := make(map[domain.ModelID]string, len(r.fallbacks)+1)
	roles[r.primary.ID] = domain.ModelRolePrimary
	for _, fallback := range r.fallbacks {
		roles[fallback.ID] = domain.ModelRoleFallback
	}
	r.mu.RUnlock()

	snapshot := make([]domain.ModelHealth, 0, len(r.ordered))
	for _, model := range r.ordered {
		role, ok := roles[model.ID]
		if !ok {
			role = domain.ModelRoleCatalog
		}

		health := domain.ModelHealth{
			ID:       model.ID,
			Provider: model.Provider.String(),
			Role:     role,
			Healthy:  true,
		}
		if mark, marked := r.tracker.Mark(model.ID); marked {
			until := mark.UnhealthyUntil
			health.Healthy = false
			health.UnhealthyUntil = &until
		}
		snapshot = append(snapshot, health)
	}
	return snapshot
}

// Reload swaps in a freshly read chain and drops every health mark. A failing
// source leaves the current chain in place.
func (r *ModelRegistry) Reload() error {
	if r.source != nil {
		chain, err := r.source()
		if err != nil {
			return fmt.Errorf("failed to reload model chain: %w", err)
		}

		primary, fallbacks := r.resolveChain(chain)

		r.mu.Lock()
		previous := r.primary
		r.primary = primary
		r.fallbacks = fallbacks
		r.mu.Unlock()

		if previous.ID != primary.ID {
			r.logger.InfoConfigChange(previous.ID.String(), primary.ID.String())
		}
	}

	r.tracker.Clear()
	r.logger.InfoWithCount("Model registry reloaded, fallbacks", len(r.GetFallbackChain()))
	return nil
}

func (r *ModelRegistry) resolveChain(chain ChainConfig) (domain.ModelDescriptor, []domain.ModelDescriptor) {
	primary := r.resolvePrimary(domain.ModelID(strings.TrimSpace(chain.Primary)))

	seen := map[domain.ModelID]struct{}{primary.ID: {}}
	fallbacks := make([]domain.ModelDescriptor, 0, len(chain.Fallbacks))

	for _, raw := range chain.Fallbacks {
		id := domain.ModelID(strings.TrimSpace(raw))
		if id.IsEmpty() {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}

		model, ok := r.catalog[id]
		if !ok {
			err := domain.NewUnknownModelError(id, "fallback chain")
			r.logger.Error("Dropping unknown fallback model", "error", err)
			continue
		}
		seen[id] = struct{}{}
		fallbacks = append(fallbacks, model)
	}
	return primary, fallbacks
}

func (r *ModelRegistry) resolvePrimary(id domain.ModelID) domain.ModelDescriptor {
	if model, ok := r.catalog[id]; ok {
		return model
	}

	if !id.IsEmpty() {
		err := domain.NewUnknownModelError(id, "primary")
		r.logger.Error("Unknown primary model, using default", "error", err, "default", constants.DefaultPrimaryModel)
	}

	if model, ok := r.catalog[domain.ModelID(constants.DefaultPrimaryModel)]; ok {
		return model
	}

	// custom catalogs may not carry the default, first by id is stable
	r.logger.Error("Default primary missing from catalog", "default", constants.DefaultPrimaryModel, "using", r.ordered[0].ID)
	return r.ordered[0]
}
