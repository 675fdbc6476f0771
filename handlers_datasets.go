package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// handleUploadDataset replaces the dataset from one or more uploaded JSON
// files. The whole upload is all-or-nothing: one malformed file rejects the
// load and the previous dataset stays untouched.
func handleUploadDataset(store *Store, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "VALIDATION_ERROR", Message: err.Error()})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "VALIDATION_ERROR", Message: "at least one file is required"})
			return
		}

		if !store.BeginLoad() {
			c.JSON(http.StatusConflict, errResponse{OK: false, Error: "LOAD_IN_PROGRESS", Message: "another load is still running"})
			return
		}
		defer store.EndLoad()

		sources := make([]datasetSource, len(files))
		names := make([]string, len(files))
		for i, fh := range files {
			fh := fh
			sources[i] = datasetSource{
				Name: fh.Filename,
				Open: func() (io.ReadCloser, error) { return fh.Open() },
			}
			names[i] = fh.Filename
		}

		records, err := loadDataset(sources)
		if err != nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "PARSE_ERROR", Message: err.Error()})
			return
		}

		store.Replace(records)

		archived := false
		if db != nil {
			if _, _, err := archiveDatasetLoad(db, strings.Join(names, ", "), len(files), records); err == nil {
				archived = true
			}
			// archive failures are logged by gorm; the load itself stands
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"files":    len(files),
			"records":  len(records),
			"archived": archived,
		})
	}
}

func handleListDatasetLoads(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "ARCHIVE_DISABLED", Message: "no mysql configuration, archive unavailable"})
			return
		}
		limit := parseLimit(c.Query("limit"), 50, 1, 200)
		rows, err := listDatasetLoads(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errResponse{OK: false, Error: "INTERNAL_ERROR", Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": rows})
	}
}

// handleRestoreDatasetLoad swaps the in-memory dataset for an archived one.
func handleRestoreDatasetLoad(store *Store, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "ARCHIVE_DISABLED", Message: "no mysql configuration, archive unavailable"})
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "VALIDATION_ERROR", Message: "id must be an integer"})
			return
		}

		records, err := loadDatasetByID(db, id)
		if err != nil {
			c.JSON(http.StatusNotFound, errResponse{OK: false, Error: "NOT_FOUND", Message: err.Error()})
			return
		}

		if !store.BeginLoad() {
			c.JSON(http.StatusConflict, errResponse{OK: false, Error: "LOAD_IN_PROGRESS", Message: "another load is still running"})
			return
		}
		defer store.EndLoad()

		store.Replace(records)
		c.JSON(http.StatusOK, gin.H{"ok": true, "records": len(records)})
	}
}

// parseLimit clamps a limit query param into [min, max], defaulting when
// absent or malformed.
func parseLimit(raw string, def, min, max int) int {
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if parsed < min {
		return min
	}
	if parsed > max {
		return max
	}
	return parsed
}
