package main

import (
	"sort"
	"strings"
)

// buildSummary computes the four dataset-wide counters. Distinct-repo sets
// only consider records whose repo field is literally present.
func buildSummary(records []Record) summaryResponse {
	resp := summaryResponse{OK: true, TotalRecords: len(records)}

	ftpRepos := make(map[string]struct{})
	allRepos := make(map[string]struct{})
	for _, r := range records {
		if r.Repo != "" {
			allRepos[r.Repo] = struct{}{}
		}
		if r.IsFailToPass() {
			resp.FailToPassRecords++
			if r.Repo != "" {
				ftpRepos[r.Repo] = struct{}{}
			}
		}
	}
	resp.FailToPassRepos = len(ftpRepos)
	resp.TotalRepos = len(allRepos)
	return resp
}

// failToPassSubset is the fixed slice every chart is built from, independent
// of the user's current filter.
func failToPassSubset(records []Record) []Record {
	subset := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IsFailToPass() {
			subset = append(subset, r)
		}
	}
	return subset
}

var fileBucketLabels = []string{"1-2", "3-5", "6-10", "10+"}

// buildFileCountChart buckets len(patch) per record. The ≤2 boundary means
// a record with zero files still lands in the "1-2" bucket.
func buildFileCountChart(subset []Record) chartPayload {
	data := make([]float64, len(fileBucketLabels))
	for _, r := range subset {
		n := len(r.Patch)
		switch {
		case n <= 2:
			data[0]++
		case n <= 5:
			data[1]++
		case n <= 10:
			data[2]++
		default:
			data[3]++
		}
	}
	return chartPayload{
		Labels:   fileBucketLabels,
		Datasets: []chartDataset{{Label: "Records", Data: data}},
	}
}

var changeBucketLabels = []string{"1-10", "11-50", "51-100", "100+"}

// buildChangeVolumeChart buckets the summed change count per record; zero
// changes map to the first bucket, same as the file-count histogram.
func buildChangeVolumeChart(subset []Record) chartPayload {
	data := make([]float64, len(changeBucketLabels))
	for _, r := range subset {
		n := r.TotalChanges()
		switch {
		case n <= 10:
			data[0]++
		case n <= 50:
			data[1]++
		case n <= 100:
			data[2]++
		default:
			data[3]++
		}
	}
	return chartPayload{
		Labels:   changeBucketLabels,
		Datasets: []chartDataset{{Label: "Records", Data: data}},
	}
}

// buildRepoFrequencyChart counts records per repo, descending by count with
// label ties broken alphabetically so the output is deterministic. Axis
// labels keep only the final path segment of the repo identifier.
func buildRepoFrequencyChart(subset []Record) chartPayload {
	counts := make(map[string]int)
	for _, r := range subset {
		repo := r.Repo
		if repo == "" {
			repo = "unknown"
		}
		counts[repo]++
	}

	repos := make([]string, 0, len(counts))
	for repo := range counts {
		repos = append(repos, repo)
	}
	sort.Slice(repos, func(i, j int) bool {
		if counts[repos[i]] != counts[repos[j]] {
			return counts[repos[i]] > counts[repos[j]]
		}
		return repos[i] < repos[j]
	})

	labels := make([]string, len(repos))
	data := make([]float64, len(repos))
	for i, repo := range repos {
		labels[i] = lastPathSegment(repo)
		data[i] = float64(counts[repo])
	}
	return chartPayload{
		Labels:   labels,
		Datasets: []chartDataset{{Label: "Records", Data: data}},
	}
}

func lastPathSegment(repo string) string {
	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		return repo[idx+1:]
	}
	return repo
}

// buildTimelineChart counts records per created_at year-month. Records
// without a parseable date are excluded; YYYY-MM keys sort lexicographically,
// which is chronological for zero-padded months.
func buildTimelineChart(subset []Record) chartPayload {
	counts := make(map[string]int)
	for _, r := range subset {
		created := r.CreatedTime()
		if created.IsZero() {
			continue
		}
		counts[created.UTC().Format("2006-01")]++
	}

	labels := make([]string, 0, len(counts))
	for month := range counts {
		labels = append(labels, month)
	}
	sort.Strings(labels)

	data := make([]float64, len(labels))
	for i, month := range labels {
		data[i] = float64(counts[month])
	}
	return chartPayload{
		Labels:   labels,
		Datasets: []chartDataset{{Label: "Records", Data: data}},
	}
}

func buildCharts(records []Record) chartsResponse {
	subset := failToPassSubset(records)
	return chartsResponse{
		OK:            true,
		Subset:        len(subset),
		FileBuckets:   buildFileCountChart(subset),
		ChangeBuckets: buildChangeVolumeChart(subset),
		RepoFrequency: buildRepoFrequencyChart(subset),
		Timeline:      buildTimelineChart(subset),
	}
}
