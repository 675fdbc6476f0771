package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// filterConfig is the predicate built from the dashboard's filter controls.
// Zero values mean "condition not active".
type filterConfig struct {
	Query      string
	Repos      map[string]struct{} // lower-cased
	From       time.Time           // start of day
	To         time.Time           // end of day
	FailToPass bool
}

var errInvalidRange = errors.New("to must be >= from")

const dateLayout = "2006-01-02"

func parseFilterConfig(c *gin.Context) (filterConfig, error) {
	var f filterConfig

	f.Query = strings.TrimSpace(c.Query("q"))

	repos := c.QueryArray("repo")
	if len(repos) > 0 {
		f.Repos = make(map[string]struct{}, len(repos))
		for _, repo := range repos {
			repo = strings.ToLower(strings.TrimSpace(repo))
			if repo != "" {
				f.Repos[repo] = struct{}{}
			}
		}
		if len(f.Repos) == 0 {
			f.Repos = nil
		}
	}

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, err
		}
		f.From = parsed
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, err
		}
		// inclusive upper bound at 23:59:59.999999999
		f.To = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, errInvalidRange
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("fail_to_pass"))) {
	case "1", "true", "yes", "on":
		f.FailToPass = true
	}

	return f, nil
}

// Match reports whether a record satisfies every active condition. A record
// without a parseable created_at never satisfies an active date bound.
func (f filterConfig) Match(r Record) bool {
	if f.Query != "" &&
		!strings.Contains(strings.ToLower(r.ProblemStatement), strings.ToLower(f.Query)) {
		return false
	}
	if f.Repos != nil {
		if _, ok := f.Repos[strings.ToLower(r.Repo)]; !ok {
			return false
		}
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		created := r.CreatedTime()
		if created.IsZero() {
			return false
		}
		if !f.From.IsZero() && created.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && created.After(f.To) {
			return false
		}
	}
	if f.FailToPass && !r.IsFailToPass() {
		return false
	}
	return true
}

// applyFilter returns the ids of matching records in dataset order. The
// filter is stable: it never reorders its input.
func applyFilter(records []Record, f filterConfig) []int {
	ids := make([]int, 0, len(records))
	for i, r := range records {
		if f.Match(r) {
			ids = append(ids, i)
		}
	}
	return ids
}
