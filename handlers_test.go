package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testRouter(store *Store) *gin.Engine {
	r := gin.New()
	registerRoutes(r, store, nil)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: invalid JSON response: %v", method, path, err)
	}
	return w, decoded
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, w.FormDataContentType()
}

func TestSummaryEmptyStore(t *testing.T) {
	r := testRouter(NewStore())
	w, body := doJSON(t, r, "GET", "/api/summary", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["total_records"].(float64) != 0 {
		t.Errorf("total_records = %v, want 0", body["total_records"])
	}
}

func TestUploadScenario(t *testing.T) {
	store := NewStore()
	r := testRouter(store)

	buf, ct := multipartUpload(t, map[string]string{
		"single.json": `{"repo":"a/b","FAIL_TO_PASS":"t1"}`,
		"pair.json":   `[{"repo":"c/d"},{"repo":"e/f","created_at":"2024-03-15T00:00:00Z"}]`,
	})
	w, body := doJSON(t, r, "POST", "/api/datasets", buf, ct)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %v", w.Code, body)
	}
	if body["records"].(float64) != 3 {
		t.Errorf("records = %v, want 3", body["records"])
	}

	_, summary := doJSON(t, r, "GET", "/api/summary", nil, "")
	if summary["total_records"].(float64) != 3 {
		t.Errorf("total = %v, want 3", summary["total_records"])
	}
	if summary["fail_to_pass_records"].(float64) != 1 {
		t.Errorf("fail-to-pass = %v, want 1", summary["fail_to_pass_records"])
	}
	if summary["fail_to_pass_repos"].(float64) != 1 {
		t.Errorf("fail-to-pass repos = %v, want 1", summary["fail_to_pass_repos"])
	}
}

func TestUploadRejectsMalformedFile(t *testing.T) {
	store := NewStore()
	store.Replace([]Record{{Repo: "keep/me"}})
	r := testRouter(store)

	buf, ct := multipartUpload(t, map[string]string{
		"good.json": `[{"repo":"a"}]`,
		"bad.json":  `{broken`,
	})
	w, body := doJSON(t, r, "POST", "/api/datasets", buf, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "PARSE_ERROR" {
		t.Errorf("error = %v, want PARSE_ERROR", body["error"])
	}
	// all-or-nothing: previous dataset untouched
	if store.Len() != 1 {
		t.Errorf("store len = %d after rejected load, want 1", store.Len())
	}
}

func TestUploadRequiresFiles(t *testing.T) {
	r := testRouter(NewStore())
	buf, ct := multipartUpload(t, nil)
	w, body := doJSON(t, r, "POST", "/api/datasets", buf, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "VALIDATION_ERROR" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestListRecordsSortedDescMissingDatesLast(t *testing.T) {
	store := NewStore()
	store.Replace([]Record{
		{Repo: "old", CreatedAt: "2023-01-01T00:00:00Z"},
		{Repo: "dateless"},
		{Repo: "new", CreatedAt: "2024-01-01T00:00:00Z"},
	})
	r := testRouter(store)

	_, body := doJSON(t, r, "GET", "/api/records", nil, "")
	data := body["data"].([]interface{})
	if len(data) != 3 {
		t.Fatalf("got %d cards", len(data))
	}
	order := make([]string, len(data))
	for i, item := range data {
		order[i] = item.(map[string]interface{})["repo"].(string)
	}
	want := []string{"new", "old", "dateless"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestListRecordsRepoFilterCaseInsensitive(t *testing.T) {
	store := NewStore()
	store.Replace([]Record{
		{Repo: "x/y"},
		{Repo: "X/Y"},
		{Repo: "a/b"},
	})
	r := testRouter(store)

	_, body := doJSON(t, r, "GET", "/api/records?repo=x%2Fy", nil, "")
	if body["matched"].(float64) != 2 {
		t.Errorf("matched = %v, want 2", body["matched"])
	}
}

func TestRecordCardProjection(t *testing.T) {
	long := make([]byte, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, 'x')
	}
	store := NewStore()
	store.Replace([]Record{{
		Repo:             "org/proj",
		Number:           7,
		ProblemStatement: string(long),
		Patch: []FileChange{
			{Filename: "dir/a.py", Changes: 2, Additions: 1, Deletions: 1},
			{Filename: "dir/b.py"},
			{Filename: "dir/c.py"},
			{Filename: "dir/d.py"},
			{Filename: "dir/e.py"},
		},
	}})
	r := testRouter(store)

	_, body := doJSON(t, r, "GET", "/api/records", nil, "")
	card := body["data"].([]interface{})[0].(map[string]interface{})
	summary := card["summary"].(string)
	if len([]rune(summary)) != summaryLimit+3 {
		t.Errorf("summary length = %d, want %d plus ellipsis", len([]rune(summary)), summaryLimit)
	}
	files := card["files"].([]interface{})
	if len(files) != 3 {
		t.Errorf("files shown = %d, want 3", len(files))
	}
	if files[0].(string) != "a.py" {
		t.Errorf("filenames must be basenames, got %v", files[0])
	}
	if card["more_files"].(float64) != 2 {
		t.Errorf("more_files = %v, want 2", card["more_files"])
	}
}

func TestRecordDetail(t *testing.T) {
	store := NewStore()
	store.Replace([]Record{{
		Repo:       "org/proj",
		Number:     12,
		BaseCommit: "0123456789abcdef",
		FailToPass: testList{"test_a", "test_b"},
		Patch:      []FileChange{{Filename: "a.py", Patch: "+x = 1", Changes: 1, Additions: 1}},
		TestPatch:  []FileChange{{Filename: "test_a.py", Patch: "+assert x"}},
	}})
	r := testRouter(store)

	w, body := doJSON(t, r, "GET", "/api/records/0", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["base_commit"] != "01234567" {
		t.Errorf("base_commit = %v, want 8-char truncation", body["base_commit"])
	}
	if body["fail_to_pass"] != "test_a, test_b" {
		t.Errorf("fail_to_pass display = %v", body["fail_to_pass"])
	}
	patch := body["patch"].([]interface{})
	if len(patch) != 1 {
		t.Fatalf("patch files = %d", len(patch))
	}
	file := patch[0].(map[string]interface{})
	if file["lang"] != "python" {
		t.Errorf("lang = %v", file["lang"])
	}
	if body["test_patch"] == nil {
		t.Error("test_patch missing")
	}
}

func TestRecordDetailNotFound(t *testing.T) {
	r := testRouter(NewStore())
	w, body := doJSON(t, r, "GET", "/api/records/5", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body["error"] != "NOT_FOUND" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestListRepos(t *testing.T) {
	store := NewStore()
	store.Replace([]Record{{Repo: "B/Repo"}, {Repo: "a/repo"}, {Repo: "b/repo"}, {}})
	r := testRouter(store)

	_, body := doJSON(t, r, "GET", "/api/repos", nil, "")
	data := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("repos = %v, want 2 lower-cased distinct values", data)
	}
	if data[0].(string) != "a/repo" || data[1].(string) != "b/repo" {
		t.Errorf("repos = %v", data)
	}
}

func TestArchiveEndpointsDisabledWithoutDB(t *testing.T) {
	r := testRouter(NewStore())

	w, body := doJSON(t, r, "GET", "/api/datasets", nil, "")
	if w.Code != http.StatusBadRequest || body["error"] != "ARCHIVE_DISABLED" {
		t.Errorf("list: status=%d error=%v", w.Code, body["error"])
	}

	w, body = doJSON(t, r, "POST", "/api/datasets/1/restore", nil, "")
	if w.Code != http.StatusBadRequest || body["error"] != "ARCHIVE_DISABLED" {
		t.Errorf("restore: status=%d error=%v", w.Code, body["error"])
	}
}

func TestUploadRejectedWhileLoadInFlight(t *testing.T) {
	store := NewStore()
	if !store.BeginLoad() {
		t.Fatal("could not take load guard")
	}
	defer store.EndLoad()
	r := testRouter(store)

	buf, ct := multipartUpload(t, map[string]string{"a.json": `[]`})
	w, body := doJSON(t, r, "POST", "/api/datasets", buf, ct)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body["error"] != "LOAD_IN_PROGRESS" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestDashboardServed(t *testing.T) {
	r := testRouter(NewStore())
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("VibeCoding-Bench PR Dashboard")) {
		t.Error("dashboard HTML missing title")
	}
}
