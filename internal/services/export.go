package services

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/toanvet/farmaudit/internal/models"
)

// ExportDetailsCSV renders one submitted audit as a per-item CSV. Rows come
// out in the order the store returned them, which is catalog order.
func ExportDetailsCSV(rec *models.HistoryRecord, rows []*models.AuditDetail) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"session_id", "farm", "auditor", "item_id", "title", "input_type",
		"standard", "actual_value", "unit", "status", "score", "weight",
		"reason", "auto_comment", "evidence_url",
	})
	for _, r := range rows {
		row := []string{
			rec.SessionID,
			rec.FarmID,
			rec.User,
			r.ItemID,
			r.Title,
			string(r.InputType),
			r.StandardSnapshot,
			r.ActualValue,
			r.Unit,
			string(r.Status),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Weight),
			r.Reason,
			r.AutoComment,
			r.EvidenceURL,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportHistoryCSV renders audit summary rows, one per submitted session.
func ExportHistoryCSV(records []*models.HistoryRecord) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"session_id", "timestamp", "farm", "auditor", "score", "rating", "general_comment"})
	for _, rec := range records {
		row := []string{
			rec.SessionID,
			rec.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			rec.FarmID,
			rec.User,
			strconv.FormatFloat(rec.Score, 'f', 1, 64),
			rec.Rating,
			rec.GeneralComment,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
