package main

import (
	"encoding/json"
	"strings"
	"time"
)

// Record is one pull-request instance from a VibeCoding-Bench dataset file.
// Every field is optional in the input; consumers fall back to zero values
// and display placeholders instead of failing.
type Record struct {
	Repo             string       `json:"repo"`
	Org              string       `json:"org,omitempty"`
	Number           int          `json:"number"`
	InstanceID       string       `json:"instance_id,omitempty"`
	BaseCommit       string       `json:"base_commit,omitempty"`
	Version          string       `json:"version,omitempty"`
	CreatedAt        string       `json:"created_at,omitempty"`
	ProblemStatement string       `json:"problem_statement,omitempty"`
	HintsText        string       `json:"hints_text,omitempty"`
	Patch            []FileChange `json:"patch"`
	TestPatch        []FileChange `json:"test_patch"`
	TestFiles        []string     `json:"test_files,omitempty"`
	FailToPass       testList     `json:"FAIL_TO_PASS"`
	PassToPass       testList     `json:"PASS_TO_PASS"`
}

// FileChange is one modified file inside a record's patch.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// createdAtLayouts are the timestamp shapes seen in GitHub-API-derived
// dataset files, most specific first.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedTime parses created_at. The zero time stands for "missing or
// unparseable" and sorts before every real timestamp.
func (r Record) CreatedTime() time.Time {
	v := strings.TrimSpace(r.CreatedAt)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r Record) IsFailToPass() bool {
	return r.FailToPass.Truthy()
}

func (r Record) TotalChanges() int {
	total := 0
	for _, fc := range r.Patch {
		total += fc.Changes
	}
	return total
}

func (r Record) TotalAdditions() int {
	total := 0
	for _, fc := range r.Patch {
		total += fc.Additions
	}
	return total
}

func (r Record) TotalDeletions() int {
	total := 0
	for _, fc := range r.Patch {
		total += fc.Deletions
	}
	return total
}

// testList tolerates the encodings of FAIL_TO_PASS / PASS_TO_PASS found in
// dataset files: a joined string, a list of test names, or null.
type testList []string

func (t *testList) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = nil
	case string:
		if s := strings.TrimSpace(v); s != "" {
			*t = testList{s}
		} else {
			*t = nil
		}
	case []interface{}:
		names := make(testList, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				names = append(names, s)
			}
		}
		if len(names) == 0 {
			names = nil
		}
		*t = names
	default:
		// Unexpected shapes (numbers, objects) degrade to "not set".
		*t = nil
	}
	return nil
}

func (t testList) Truthy() bool {
	return len(t) > 0
}

func (t testList) Display() string {
	return strings.Join(t, ", ")
}

type summaryResponse struct {
	OK                bool `json:"ok"`
	TotalRecords      int  `json:"total_records"`
	FailToPassRecords int  `json:"fail_to_pass_records"`
	FailToPassRepos   int  `json:"fail_to_pass_repos"`
	TotalRepos        int  `json:"total_repos"`
}

type chartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type chartPayload struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartsResponse struct {
	OK            bool         `json:"ok"`
	Subset        int          `json:"subset"`
	FileBuckets   chartPayload `json:"file_buckets"`
	ChangeBuckets chartPayload `json:"change_buckets"`
	RepoFrequency chartPayload `json:"repo_frequency"`
	Timeline      chartPayload `json:"timeline"`
}

type recordCard struct {
	ID            int      `json:"id"`
	Summary       string   `json:"summary"`
	Repo          string   `json:"repo"`
	Number        int      `json:"number"`
	Date          string   `json:"date"`
	FileCount     int      `json:"file_count"`
	TotalChanges  int      `json:"total_changes"`
	Additions     int      `json:"additions"`
	Deletions     int      `json:"deletions"`
	TestFileCount int      `json:"test_file_count"`
	FailToPass    bool     `json:"fail_to_pass"`
	Files         []string `json:"files"`
	MoreFiles     int      `json:"more_files"`
}

type diffLine struct {
	Kind string `json:"kind"` // addition | removal | meta | context
	Text string `json:"text"` // HTML-escaped; "&nbsp;" when empty
}

type fileDiff struct {
	Filename  string     `json:"filename"`
	Status    string     `json:"status,omitempty"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Changes   int        `json:"changes"`
	Lang      string     `json:"lang"`
	Lines     []diffLine `json:"lines"`
}

type recordDetail struct {
	OK               bool       `json:"ok"`
	ID               int        `json:"id"`
	Repo             string     `json:"repo"`
	Number           int        `json:"number"`
	Date             string     `json:"date"`
	BaseCommit       string     `json:"base_commit"`
	Version          string     `json:"version"`
	InstanceID       string     `json:"instance_id"`
	ProblemStatement string     `json:"problem_statement"`
	FailToPass       string     `json:"fail_to_pass"`
	FileCount        int        `json:"file_count"`
	TotalChanges     int        `json:"total_changes"`
	Additions        int        `json:"additions"`
	Deletions        int        `json:"deletions"`
	Patch            []fileDiff `json:"patch"`
	TestPatch        []fileDiff `json:"test_patch"`
}

type datasetLoadRow struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	FileCount   int       `json:"file_count"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}
