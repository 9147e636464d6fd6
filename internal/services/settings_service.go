package services

import (
	"math"
	"strings"

	"github.com/toanvet/farmaudit/internal/models"
)

// SettingsStore abstracts persistence of the administrative configuration.
type SettingsStore interface {
	GetSettings() (*models.Settings, error)
	SaveSettings(*models.Settings) error
	GetScoringConfig() (*models.ScoringConfig, error)
	SaveScoringConfig(models.ScoringConfig) error
	ListModuleConfigs() ([]models.ModuleConfig, error)
	SaveModuleConfigs([]models.ModuleConfig) error
}

// Fallbacks used until an administrator saves their own lists.
var (
	defaultFarms = []string{"VT1", "VT2", "VT3", "VT4"}
	defaultRoles = []string{"Admin", "Vet", "Supervisor", "Manager", "External Auditor", "General Staff"}
)

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) GetSettings() (*models.Settings, error) {
	st, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if st == nil || len(st.Farms) == 0 {
		return &models.Settings{
			Farms: append([]string(nil), defaultFarms...),
			Roles: append([]string(nil), defaultRoles...),
		}, nil
	}
	return st, nil
}

func (s *SettingsService) SaveSettings(farms, roles []string) (*models.Settings, error) {
	cleanFarms := cleanList(farms)
	cleanRoles := cleanList(roles)
	if len(cleanFarms) == 0 {
		return nil, NewInvalidError("at least one farm required")
	}
	if len(cleanRoles) == 0 {
		return nil, NewInvalidError("at least one role required")
	}
	st := &models.Settings{Farms: cleanFarms, Roles: cleanRoles}
	if err := s.store.SaveSettings(st); err != nil {
		return nil, err
	}
	return st, nil
}

// GetScoringConfig returns the stored configuration, or the defaults when
// nothing has been saved yet. The result is a value: every computation gets
// its own snapshot.
func (s *SettingsService) GetScoringConfig() (models.ScoringConfig, error) {
	cfg, err := s.store.GetScoringConfig()
	if err != nil {
		return models.ScoringConfig{}, err
	}
	if cfg == nil {
		return models.DefaultScoringConfig(), nil
	}
	return *cfg, nil
}

func (s *SettingsService) SaveScoringConfig(cfg models.ScoringConfig) error {
	if !finite(cfg.CriticalLimit) || cfg.CriticalLimit < 0 || cfg.CriticalLimit > 100 {
		return NewInvalidError("critical limit must be within 0-100")
	}
	t := cfg.Thresholds
	for _, v := range []float64{t.Green, t.Yellow, t.Orange} {
		if !finite(v) || v < 0 || v > 100 {
			return NewInvalidError("thresholds must be within 0-100")
		}
	}
	// Bands are contiguous and inclusive on the lower bound; the cut points
	// must be ordered or two bands would overlap.
	if t.Green < t.Yellow || t.Yellow < t.Orange {
		return NewInvalidError("thresholds must be ordered green >= yellow >= orange")
	}
	return s.store.SaveScoringConfig(cfg)
}

// ModuleConfigsFor returns the module weight table for a catalog, creating
// weight-1 entries for modules that have none yet. Newly discovered modules
// are persisted so administrators see them in the weight editor.
func (s *SettingsService) ModuleConfigsFor(items []*models.ChecklistItem) ([]models.ModuleConfig, error) {
	stored, err := s.store.ListModuleConfigs()
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(stored))
	for _, mc := range stored {
		known[mc.Module] = struct{}{}
	}
	added := false
	for _, ms := range DeriveScope(items) {
		if _, ok := known[ms.Module]; !ok {
			stored = append(stored, models.ModuleConfig{Module: ms.Module, ModuleWeight: 1})
			known[ms.Module] = struct{}{}
			added = true
		}
	}
	if added {
		if err := s.store.SaveModuleConfigs(stored); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (s *SettingsService) SaveModuleConfigs(configs []models.ModuleConfig) error {
	seen := map[string]struct{}{}
	for _, mc := range configs {
		mod := strings.TrimSpace(mc.Module)
		if mod == "" {
			return NewInvalidError("module name required")
		}
		if _, dup := seen[mod]; dup {
			return NewConflictError("duplicate module " + mod)
		}
		seen[mod] = struct{}{}
		if !finite(mc.ModuleWeight) || mc.ModuleWeight < 0 {
			return NewInvalidError("module weight must be a non-negative number")
		}
	}
	return s.store.SaveModuleConfigs(configs)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
