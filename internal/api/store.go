package api

import (
	"sort"
	"strings"
	"sync"

	"github.com/toanvet/farmaudit/internal/models"
)

// memoryStore keeps everything in process memory. It backs tests and the
// no-database dev mode; production uses the sqlite store.
type memoryStore struct {
	mu            sync.RWMutex
	items         []*models.ChecklistItem
	itemsByID     map[string]*models.ChecklistItem
	settings      *models.Settings
	scoringCfg    *models.ScoringConfig
	moduleConfigs []models.ModuleConfig
	history       map[string]*models.HistoryRecord
	historyOrder  []string
	details       map[string][]*models.AuditDetail
	usersByEmail  map[string]*models.User
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		itemsByID:    map[string]*models.ChecklistItem{},
		history:      map[string]*models.HistoryRecord{},
		details:      map[string][]*models.AuditDetail{},
		usersByEmail: map[string]*models.User{},
	}
}

func (s *memoryStore) ListChecklistItems() ([]*models.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ChecklistItem, len(s.items))
	for i, it := range s.items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) GetChecklistItem(id string) (*models.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it := s.itemsByID[id]
	if it == nil {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (s *memoryStore) InsertChecklistItem(it *models.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *it
	s.items = append(s.items, &cp)
	s.itemsByID[cp.ID] = &cp
	return nil
}

func (s *memoryStore) UpdateChecklistItem(it *models.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.items {
		if old.ID == it.ID {
			cp := *it
			s.items[i] = &cp
			s.itemsByID[cp.ID] = &cp
			return nil
		}
	}
	return nil
}

func (s *memoryStore) DeleteChecklistItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.items {
		if old.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	delete(s.itemsByID, id)
	return nil
}

func (s *memoryStore) GetSettings() (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, nil
	}
	return &models.Settings{
		Farms: append([]string(nil), s.settings.Farms...),
		Roles: append([]string(nil), s.settings.Roles...),
	}, nil
}

func (s *memoryStore) SaveSettings(st *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &models.Settings{
		Farms: append([]string(nil), st.Farms...),
		Roles: append([]string(nil), st.Roles...),
	}
	return nil
}

func (s *memoryStore) GetScoringConfig() (*models.ScoringConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scoringCfg == nil {
		return nil, nil
	}
	cp := *s.scoringCfg
	return &cp, nil
}

func (s *memoryStore) SaveScoringConfig(cfg models.ScoringConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoringCfg = &cfg
	return nil
}

func (s *memoryStore) ListModuleConfigs() ([]models.ModuleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ModuleConfig(nil), s.moduleConfigs...), nil
}

func (s *memoryStore) SaveModuleConfigs(configs []models.ModuleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleConfigs = append([]models.ModuleConfig(nil), configs...)
	return nil
}

func (s *memoryStore) SaveAudit(rec *models.HistoryRecord, details []*models.AuditDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	if _, ok := s.history[cp.SessionID]; !ok {
		s.historyOrder = append(s.historyOrder, cp.SessionID)
	}
	s.history[cp.SessionID] = &cp
	rows := make([]*models.AuditDetail, len(details))
	for i, d := range details {
		dc := *d
		rows[i] = &dc
	}
	s.details[cp.SessionID] = rows
	return nil
}

func (s *memoryStore) ListHistory() ([]*models.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.HistoryRecord, 0, len(s.historyOrder))
	for _, id := range s.historyOrder {
		cp := *s.history[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memoryStore) GetHistory(sessionID string) (*models.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.history[sessionID]
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memoryStore) ListDetails(sessionID string) ([]*models.AuditDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.details[sessionID]
	out := make([]*models.AuditDetail, len(rows))
	for i, d := range rows {
		cp := *d
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) ListAllDetails() ([]*models.AuditDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.details))
	for id := range s.details {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*models.AuditDetail
	for _, id := range ids {
		for _, d := range s.details[id] {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryStore) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.usersByEmail[strings.ToLower(email)]
	if u == nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memoryStore) AddUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.usersByEmail[strings.ToLower(cp.Email)] = &cp
	return nil
}

var _ Store = (*memoryStore)(nil)
