package main

import (
	"reflect"
	"testing"
)

func ftpRecord(repo string, patch []FileChange) Record {
	return Record{Repo: repo, Patch: patch, FailToPass: testList{"t1"}}
}

func changes(ns ...int) []FileChange {
	fcs := make([]FileChange, len(ns))
	for i, n := range ns {
		fcs[i] = FileChange{Filename: "f.py", Changes: n}
	}
	return fcs
}

func TestBuildSummaryEmptyDataset(t *testing.T) {
	got := buildSummary(nil)
	want := summaryResponse{OK: true}
	if got != want {
		t.Errorf("got %+v, want all-zero summary", got)
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	records := []Record{
		{Repo: "a/b", FailToPass: testList{"t1"}},
		{Repo: "a/b"},
		{Repo: "c/d"},
	}
	got := buildSummary(records)
	if got.TotalRecords != 3 {
		t.Errorf("total = %d, want 3", got.TotalRecords)
	}
	if got.FailToPassRecords != 1 {
		t.Errorf("fail-to-pass count = %d, want 1", got.FailToPassRecords)
	}
	if got.FailToPassRepos != 1 {
		t.Errorf("fail-to-pass repos = %d, want 1", got.FailToPassRepos)
	}
	if got.TotalRepos != 2 {
		t.Errorf("total repos = %d, want 2", got.TotalRepos)
	}
}

func TestBuildSummarySkipsAbsentRepo(t *testing.T) {
	records := []Record{
		{FailToPass: testList{"t1"}},
		{Repo: "a/b", FailToPass: testList{"t2"}},
	}
	got := buildSummary(records)
	if got.FailToPassRepos != 1 {
		t.Errorf("absent repo must not count, got %d distinct repos", got.FailToPassRepos)
	}
}

func TestFileCountBuckets(t *testing.T) {
	subset := []Record{
		{Patch: nil},        // 0 files -> "1-2" by the <=2 boundary
		{Patch: changes(1)}, // 1
		{Patch: changes(1, 1, 1)},
		{Patch: changes(1, 1, 1, 1, 1, 1)},
		{Patch: changes(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)},
	}
	payload := buildFileCountChart(subset)
	want := []float64{2, 1, 1, 1}
	if !reflect.DeepEqual(payload.Datasets[0].Data, want) {
		t.Errorf("buckets = %v, want %v", payload.Datasets[0].Data, want)
	}
	sum := 0.0
	for _, v := range payload.Datasets[0].Data {
		sum += v
	}
	if int(sum) != len(subset) {
		t.Errorf("bucket sum %v != subset size %d", sum, len(subset))
	}
}

func TestChangeVolumeBuckets(t *testing.T) {
	subset := []Record{
		{Patch: nil},             // 0 changes -> "1-10"
		{Patch: changes(10)},     // boundary of first bucket
		{Patch: changes(11)},     // second
		{Patch: changes(60)},     // third
		{Patch: changes(40, 70)}, // 110 -> fourth
	}
	payload := buildChangeVolumeChart(subset)
	want := []float64{2, 1, 1, 1}
	if !reflect.DeepEqual(payload.Datasets[0].Data, want) {
		t.Errorf("buckets = %v, want %v", payload.Datasets[0].Data, want)
	}
}

func TestRepoFrequencyChart(t *testing.T) {
	subset := []Record{
		{Repo: "org/beta"},
		{Repo: "org/alpha"},
		{Repo: "org/alpha"},
		{},
	}
	payload := buildRepoFrequencyChart(subset)
	wantLabels := []string{"alpha", "beta", "unknown"}
	if !reflect.DeepEqual(payload.Labels, wantLabels) {
		t.Errorf("labels = %v, want %v", payload.Labels, wantLabels)
	}
	wantData := []float64{2, 1, 1}
	if !reflect.DeepEqual(payload.Datasets[0].Data, wantData) {
		t.Errorf("data = %v, want %v", payload.Datasets[0].Data, wantData)
	}
}

func TestTimelineChart(t *testing.T) {
	subset := []Record{
		{CreatedAt: "2024-03-15T00:00:00Z"},
		{CreatedAt: "2024-03-20T12:00:00Z"},
		{CreatedAt: "2023-11-01T00:00:00Z"},
		{CreatedAt: "not a date"},
		{},
	}
	payload := buildTimelineChart(subset)
	wantLabels := []string{"2023-11", "2024-03"}
	if !reflect.DeepEqual(payload.Labels, wantLabels) {
		t.Errorf("labels = %v, want %v", payload.Labels, wantLabels)
	}
	wantData := []float64{1, 2}
	if !reflect.DeepEqual(payload.Datasets[0].Data, wantData) {
		t.Errorf("data = %v, want %v", payload.Datasets[0].Data, wantData)
	}
}

func TestChartsUseFailToPassSubsetOnly(t *testing.T) {
	records := []Record{
		ftpRecord("a/b", changes(1)),
		{Repo: "c/d", Patch: changes(1)}, // not fail-to-pass, excluded
	}
	resp := buildCharts(records)
	if resp.Subset != 1 {
		t.Fatalf("subset = %d, want 1", resp.Subset)
	}
	sum := 0.0
	for _, v := range resp.FileBuckets.Datasets[0].Data {
		sum += v
	}
	if sum != 1 {
		t.Errorf("file buckets sum = %v, want 1", sum)
	}
}
