package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/toanvet/farmaudit/internal/api"
	dbstore "github.com/toanvet/farmaudit/internal/db"
	"github.com/toanvet/farmaudit/internal/middleware"
	"github.com/toanvet/farmaudit/internal/utils"
)

func main() {
	addr := utils.SafeEnv("FARMAUDIT_ADDR", ":8080")
	commit := os.Getenv("FARMAUDIT_COMMIT")
	buildTime := os.Getenv("FARMAUDIT_BUILD_TIME")

	store, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if path := os.Getenv("FARMAUDIT_CATALOG_PATH"); path != "" {
		if err := loadCatalogIfEmpty(store, path); err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "FarmAudit API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Frontend serving strategy (priority):
	// 1) Static files if FARMAUDIT_STATIC_DIR is set (fullstack image)
	// 2) Dev proxy if FARMAUDIT_DEV_FRONTEND_URL is set (proxy / to Vite dev)
	if staticDir := os.Getenv("FARMAUDIT_STATIC_DIR"); staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		mux.Handle("/", fs)
	} else if devURL := os.Getenv("FARMAUDIT_DEV_FRONTEND_URL"); devURL != "" {
		if u, err := url.Parse(devURL); err == nil {
			rp := httputil.NewSingleHostReverseProxy(u)
			// Ensure no-store headers also apply to proxied responses
			rp.ModifyResponse = func(res *http.Response) error {
				res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
				res.Header.Set("Pragma", "no-cache")
				res.Header.Set("Expires", "0")
				return nil
			}
			mux.Handle("/", rp)
		} else {
			log.Printf("invalid FARMAUDIT_DEV_FRONTEND_URL=%q: %v", devURL, err)
		}
	}

	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.LocaleMiddleware(
					middleware.WithAuth(mux)))))

	log.Printf("FarmAudit server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore prefers sqlite; without FARMAUDIT_SQLITE_PATH everything lives in
// process memory, which is fine for demos and tests but loses data on exit.
func openStore() (api.Store, error) {
	sqlitePath := os.Getenv("FARMAUDIT_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("FARMAUDIT_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + filepath.ToSlash(sqlitePath) + "?cache=shared&_busy_timeout=5000"
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := dbstore.RunMigrations(sqliteDB, os.Getenv("FARMAUDIT_MIGRATIONS_DIR")); err != nil {
		return nil, err
	}
	return dbstore.NewStore(sqliteDB)
}
