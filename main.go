package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func main() {
	cfg, err := loadConfig("config.yaml")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(err)
		}
		gin.DefaultWriter = io.MultiWriter(os.Stdout, f)
	}

	var db *gorm.DB
	if cfg.MySQL != nil {
		db, err = openDB(cfg.MySQL)
		if err != nil {
			panic(err)
		}
	}

	store := NewStore()
	if err := preloadDataset(store, db, cfg); err != nil {
		panic(err)
	}

	r := gin.Default()
	registerRoutes(r, store, db)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8869"
	}
	if err := r.Run(addr); err != nil {
		panic(err)
	}
}

func registerRoutes(r *gin.Engine, store *Store, db *gorm.DB) {
	r.GET("/", serveDashboard)

	api := r.Group("/api")
	api.GET("/summary", handleSummary(store))
	api.GET("/charts", handleCharts(store))
	api.GET("/repos", handleListRepos(store))
	api.GET("/records", handleListRecords(store))
	api.GET("/records/:id", handleRecordDetail(store))
	api.POST("/datasets", handleUploadDataset(store, db))
	api.GET("/datasets", handleListDatasetLoads(db))
	api.POST("/datasets/:id/restore", handleRestoreDatasetLoad(store, db))
}

// preloadDataset fills the store before the server accepts traffic: JSON
// files named in config first, otherwise the newest archived load.
func preloadDataset(store *Store, db *gorm.DB, cfg Config) error {
	paths := append([]string(nil), cfg.Data.Files...)
	if cfg.Data.Dir != "" {
		found, err := filepath.Glob(filepath.Join(cfg.Data.Dir, "*.json"))
		if err != nil {
			return err
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}

	if len(paths) > 0 {
		sources := make([]datasetSource, len(paths))
		for i, p := range paths {
			p := p
			sources[i] = datasetSource{
				Name: p,
				Open: func() (io.ReadCloser, error) { return os.Open(p) },
			}
		}
		records, err := loadDataset(sources)
		if err != nil {
			return err
		}
		store.Replace(records)
		return nil
	}

	if db != nil {
		records, ok, err := loadLatestDataset(db)
		if err != nil {
			return err
		}
		if ok {
			store.Replace(records)
		}
	}
	return nil
}
