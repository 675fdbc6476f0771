package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// datasetSource is one uploadable JSON file: a name for error messages and
// an opener so multipart uploads and disk files share the same path.
type datasetSource struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// parseDatasetFile normalizes one file's content to a record slice: a JSON
// array stays as-is, a single JSON object becomes a one-element slice.
// Anything else is a parse error.
func parseDatasetFile(data []byte) ([]Record, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	switch trimmed[0] {
	case '[':
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	case '{':
		var record Record
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return nil, err
		}
		return []Record{record}, nil
	default:
		return nil, fmt.Errorf("content is neither a JSON object nor an array")
	}
}

// loadDataset reads and parses all sources concurrently, then concatenates
// their records in source order. Any single failure rejects the whole load;
// no partial dataset is ever returned.
func loadDataset(sources []datasetSource) ([]Record, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	parsed := make([][]Record, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src datasetSource) {
			defer wg.Done()
			rc, err := src.Open()
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name, err)
				return
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name, err)
				return
			}
			records, err := parseDatasetFile(data)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name, err)
				return
			}
			parsed[i] = records
		}(i, src)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, records := range parsed {
		total += len(records)
	}
	all := make([]Record, 0, total)
	for _, records := range parsed {
		all = append(all, records...)
	}
	return all, nil
}
