package main

import (
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func handleSummary(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildSummary(store.Records()))
	}
}

func handleCharts(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildCharts(store.Records()))
	}
}

func handleListRepos(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": distinctRepos(store.Records())})
	}
}

// handleListRecords runs the filter engine over the full dataset, replaces
// the stored filtered view, and renders summary cards sorted by created_at
// descending. Records without a parseable date carry the zero time and thus
// settle at the end of the list.
func handleListRecords(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := parseFilterConfig(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "VALIDATION_ERROR", Message: err.Error()})
			return
		}

		records := store.Records()
		ids := applyFilter(records, f)
		store.SetFiltered(ids)

		ordered := make([]int, len(ids))
		copy(ordered, ids)
		sort.SliceStable(ordered, func(i, j int) bool {
			return records[ordered[i]].CreatedTime().After(records[ordered[j]].CreatedTime())
		})

		cards := make([]recordCard, len(ordered))
		for i, id := range ordered {
			cards[i] = buildRecordCard(id, records[id])
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"total":   len(records),
			"matched": len(ids),
			"data":    cards,
		})
	}
}

const summaryLimit = 120

func buildRecordCard(id int, r Record) recordCard {
	summary := r.ProblemStatement
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit]) + "..."
	}
	if summary == "" {
		summary = "No description"
	}

	shown := len(r.Patch)
	if shown > 3 {
		shown = 3
	}
	files := make([]string, 0, shown)
	for _, fc := range r.Patch[:shown] {
		files = append(files, path.Base(fc.Filename))
	}

	return recordCard{
		ID:            id,
		Summary:       summary,
		Repo:          r.Repo,
		Number:        r.Number,
		Date:          formatDate(r),
		FileCount:     len(r.Patch),
		TotalChanges:  r.TotalChanges(),
		Additions:     r.TotalAdditions(),
		Deletions:     r.TotalDeletions(),
		TestFileCount: len(r.TestPatch),
		FailToPass:    r.IsFailToPass(),
		Files:         files,
		MoreFiles:     len(r.Patch) - shown,
	}
}

func formatDate(r Record) string {
	created := r.CreatedTime()
	if created.IsZero() {
		return ""
	}
	return created.UTC().Format("2006-01-02")
}

func handleRecordDetail(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errResponse{OK: false, Error: "VALIDATION_ERROR", Message: "id must be an integer"})
			return
		}
		r, ok := store.Record(id)
		if !ok {
			c.JSON(http.StatusNotFound, errResponse{OK: false, Error: "NOT_FOUND", Message: "no record with this id in the current dataset"})
			return
		}

		baseCommit := r.BaseCommit
		if len(baseCommit) > 8 {
			baseCommit = baseCommit[:8]
		}

		c.JSON(http.StatusOK, recordDetail{
			OK:               true,
			ID:               id,
			Repo:             r.Repo,
			Number:           r.Number,
			Date:             formatDate(r),
			BaseCommit:       baseCommit,
			Version:          r.Version,
			InstanceID:       r.InstanceID,
			ProblemStatement: r.ProblemStatement,
			FailToPass:       r.FailToPass.Display(),
			FileCount:        len(r.Patch),
			TotalChanges:     r.TotalChanges(),
			Additions:        r.TotalAdditions(),
			Deletions:        r.TotalDeletions(),
			Patch:            buildFileDiffs(r.Patch),
			TestPatch:        buildFileDiffs(r.TestPatch),
		})
	}
}

func distinctRepos(records []Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Repo == "" {
			continue
		}
		seen[strings.ToLower(r.Repo)] = struct{}{}
	}
	repos := make([]string, 0, len(seen))
	for repo := range seen {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos
}
