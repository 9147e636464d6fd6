package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/toanvet/farmaudit/internal/api"
	"github.com/toanvet/farmaudit/internal/models"
)

const (
	configKeySettings = "settings"
	configKeyScoring  = "scoring_config"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const timeLayout = time.RFC3339Nano

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		log.Printf("sqlite store: parse time %q: %v", s, err)
		return time.Time{}
	}
	return t
}

const checklistColumns = `id, module, category, title, description, input_type,
	standard_min, standard_max, unit, photo_rule, risk, weight, fail_message, remediation_guide`

func scanChecklistItem(sc interface{ Scan(...any) error }) (*models.ChecklistItem, error) {
	var it models.ChecklistItem
	var desc, smin, smax, unit, photoRule, risk, failMsg, remediation sql.NullString
	if err := sc.Scan(&it.ID, &it.Module, &it.Category, &it.Title, &desc, &it.InputType,
		&smin, &smax, &unit, &photoRule, &risk, &it.Weight, &failMsg, &remediation); err != nil {
		return nil, err
	}
	it.Description = desc.String
	it.StandardMin = smin.String
	it.StandardMax = smax.String
	it.Unit = unit.String
	it.PhotoRule = models.PhotoRule(photoRule.String)
	it.Risk = risk.String
	it.FailMessage = failMsg.String
	it.RemediationGuide = remediation.String
	return &it, nil
}

func (s *SQLiteStore) ListChecklistItems() ([]*models.ChecklistItem, error) {
	rows, err := s.db.Query(`SELECT ` + checklistColumns + ` FROM checklist_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()
	var out []*models.ChecklistItem
	for rows.Next() {
		it, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetChecklistItem(id string) (*models.ChecklistItem, error) {
	row := s.db.QueryRow(`SELECT `+checklistColumns+` FROM checklist_items WHERE id = ?`, id)
	it, err := scanChecklistItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get checklist item: %w", err)
	}
	return it, nil
}

func (s *SQLiteStore) InsertChecklistItem(it *models.ChecklistItem) error {
	_, err := s.db.Exec(`INSERT INTO checklist_items
		(id, module, category, title, description, input_type, standard_min, standard_max,
		 unit, photo_rule, risk, weight, fail_message, remediation_guide, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(position) FROM checklist_items), 0) + 1)`,
		it.ID, it.Module, it.Category, it.Title, toNullString(it.Description), string(it.InputType),
		toNullString(it.StandardMin), toNullString(it.StandardMax), toNullString(it.Unit),
		toNullString(string(it.PhotoRule)), toNullString(it.Risk), it.Weight,
		toNullString(it.FailMessage), toNullString(it.RemediationGuide))
	if err != nil {
		return fmt.Errorf("insert checklist item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateChecklistItem(it *models.ChecklistItem) error {
	_, err := s.db.Exec(`UPDATE checklist_items SET
		module = ?, category = ?, title = ?, description = ?, input_type = ?,
		standard_min = ?, standard_max = ?, unit = ?, photo_rule = ?, risk = ?,
		weight = ?, fail_message = ?, remediation_guide = ?
		WHERE id = ?`,
		it.Module, it.Category, it.Title, toNullString(it.Description), string(it.InputType),
		toNullString(it.StandardMin), toNullString(it.StandardMax), toNullString(it.Unit),
		toNullString(string(it.PhotoRule)), toNullString(it.Risk), it.Weight,
		toNullString(it.FailMessage), toNullString(it.RemediationGuide), it.ID)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteChecklistItem(id string) error {
	if _, err := s.db.Exec(`DELETE FROM checklist_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getConfig(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get config %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode config %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) putConfig(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode config %s: %w", key, err)
	}
	_, err = s.db.Exec(`INSERT INTO app_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(b))
	if err != nil {
		return fmt.Errorf("put config %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (*models.Settings, error) {
	var st models.Settings
	ok, err := s.getConfig(configKeySettings, &st)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *SQLiteStore) SaveSettings(st *models.Settings) error {
	return s.putConfig(configKeySettings, st)
}

func (s *SQLiteStore) GetScoringConfig() (*models.ScoringConfig, error) {
	var cfg models.ScoringConfig
	ok, err := s.getConfig(configKeyScoring, &cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (s *SQLiteStore) SaveScoringConfig(cfg models.ScoringConfig) error {
	return s.putConfig(configKeyScoring, cfg)
}

func (s *SQLiteStore) ListModuleConfigs() ([]models.ModuleConfig, error) {
	rows, err := s.db.Query(`SELECT module, module_weight FROM module_configs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list module configs: %w", err)
	}
	defer rows.Close()
	var out []models.ModuleConfig
	for rows.Next() {
		var mc models.ModuleConfig
		if err := rows.Scan(&mc.Module, &mc.ModuleWeight); err != nil {
			return nil, fmt.Errorf("scan module config: %w", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveModuleConfigs(configs []models.ModuleConfig) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save module configs: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM module_configs`); err != nil {
		return fmt.Errorf("clear module configs: %w", err)
	}
	for i, mc := range configs {
		if _, err := tx.Exec(`INSERT INTO module_configs (module, module_weight, position) VALUES (?, ?, ?)`,
			mc.Module, mc.ModuleWeight, i); err != nil {
			return fmt.Errorf("insert module config %s: %w", mc.Module, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveAudit(rec *models.HistoryRecord, details []*models.AuditDetail) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save audit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT INTO audits (session_id, ts, farm_id, auditor, score, rating, general_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Timestamp.UTC().Format(timeLayout), rec.FarmID, rec.User,
		rec.Score, rec.Rating, toNullString(rec.GeneralComment)); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	for i, d := range details {
		if _, err := tx.Exec(`INSERT INTO audit_details
			(session_id, position, item_id, title, input_type, standard_snapshot, actual_value,
			 unit, status, score, reason, auto_comment, evidence_url, weight)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.SessionID, i, d.ItemID, d.Title, string(d.InputType),
			toNullString(d.StandardSnapshot), toNullString(d.ActualValue), toNullString(d.Unit),
			string(d.Status), d.Score, toNullString(d.Reason), toNullString(d.AutoComment),
			toNullString(d.EvidenceURL), d.Weight); err != nil {
			return fmt.Errorf("insert audit detail %s: %w", d.ItemID, err)
		}
	}
	return tx.Commit()
}

func scanHistoryRecord(sc interface{ Scan(...any) error }) (*models.HistoryRecord, error) {
	var rec models.HistoryRecord
	var ts string
	var comment sql.NullString
	if err := sc.Scan(&rec.SessionID, &ts, &rec.FarmID, &rec.User, &rec.Score, &rec.Rating, &comment); err != nil {
		return nil, err
	}
	rec.Timestamp = parseTime(ts)
	rec.GeneralComment = comment.String
	return &rec, nil
}

func (s *SQLiteStore) ListHistory() ([]*models.HistoryRecord, error) {
	rows, err := s.db.Query(`SELECT session_id, ts, farm_id, auditor, score, rating, general_comment
		FROM audits ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var out []*models.HistoryRecord
	for rows.Next() {
		rec, err := scanHistoryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetHistory(sessionID string) (*models.HistoryRecord, error) {
	row := s.db.QueryRow(`SELECT session_id, ts, farm_id, auditor, score, rating, general_comment
		FROM audits WHERE session_id = ?`, sessionID)
	rec, err := scanHistoryRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return rec, nil
}

const detailColumns = `session_id, item_id, title, input_type, standard_snapshot, actual_value,
	unit, status, score, reason, auto_comment, evidence_url, weight`

func scanDetail(sc interface{ Scan(...any) error }) (*models.AuditDetail, error) {
	var d models.AuditDetail
	var snapshot, actual, unit, reason, autoComment, evidence sql.NullString
	if err := sc.Scan(&d.SessionID, &d.ItemID, &d.Title, &d.InputType, &snapshot, &actual,
		&unit, &d.Status, &d.Score, &reason, &autoComment, &evidence, &d.Weight); err != nil {
		return nil, err
	}
	d.StandardSnapshot = snapshot.String
	d.ActualValue = actual.String
	d.Unit = unit.String
	d.Reason = reason.String
	d.AutoComment = autoComment.String
	d.EvidenceURL = evidence.String
	return &d, nil
}

func (s *SQLiteStore) listDetailRows(query string, args ...any) ([]*models.AuditDetail, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit details: %w", err)
	}
	defer rows.Close()
	var out []*models.AuditDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListDetails(sessionID string) ([]*models.AuditDetail, error) {
	return s.listDetailRows(`SELECT `+detailColumns+` FROM audit_details
		WHERE session_id = ? ORDER BY position`, sessionID)
}

func (s *SQLiteStore) ListAllDetails() ([]*models.AuditDetail, error) {
	return s.listDetailRows(`SELECT ` + detailColumns + ` FROM audit_details
		ORDER BY session_id, position`)
}

func (s *SQLiteStore) FindUserByEmail(email string) (*models.User, error) {
	var u models.User
	var name sql.NullString
	var createdAt string
	err := s.db.QueryRow(`SELECT id, email, name, pass_hash, created_at FROM users WHERE email = ? COLLATE NOCASE`,
		email).Scan(&u.ID, &u.Email, &name, &u.PassHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Name = name.String
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

func (s *SQLiteStore) AddUser(u *models.User) error {
	_, err := s.db.Exec(`INSERT INTO users (id, email, name, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, toNullString(u.Name), u.PassHash, u.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

var _ api.Store = (*SQLiteStore)(nil)
