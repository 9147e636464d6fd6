package api

import "github.com/toanvet/farmaudit/internal/services"

// Store is the full persistence surface of the server. Each service sees
// only the slice of it declared by its own store interface; the memory and
// sqlite stores implement the whole thing.
type Store interface {
	services.ChecklistStore
	services.SettingsStore
	services.AuditStore
	services.DashboardStore
	services.AuthStore
}
