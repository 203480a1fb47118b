package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"benchgate/domain/core"
	"benchgate/domain/sample"
	"benchgate/internal"
)

// Reader loads raw benchmark sample records from JSON, CSV or Excel
// files. Rows that cannot be parsed at all are counted and skipped;
// the run never aborts on a bad row. Semantic validation (negative
// times, non-finite values) is the quality controller's job.
type Reader struct {
	filePath string
	fileType string // "json", "csv" or "xlsx"
	log      *internal.Logger
}

// ReadResult carries the parsed samples plus ingestion bookkeeping.
type ReadResult struct {
	Samples     []sample.Sample
	SkippedRows int
}

// NewReader creates a reader for the given file, inferring the format
// from the extension.
func NewReader(filePath string) *Reader {
	fileType := "json"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		fileType = "csv"
	case ".xlsx":
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// Read loads all sample records from the file.
func (r *Reader) Read() (*ReadResult, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("results file not found: %s", r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return r.readJSON()
	}
}

// rawRecord is the wire format of one sample row.
type rawRecord struct {
	Task            string            `json:"task"`
	Implementation  string            `json:"implementation"`
	Scale           string            `json:"scale"`
	ExecutionTimeMs float64           `json:"execution_time_ms"`
	MemoryUsedMb    float64           `json:"memory_used_mb"`
	Succeeded       bool              `json:"succeeded"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (rec rawRecord) toSample() sample.Sample {
	return sample.Sample{
		Task:            rec.Task,
		Implementation:  core.Implementation(strings.ToUpper(strings.TrimSpace(rec.Implementation))),
		Scale:           rec.Scale,
		ExecutionTimeMs: rec.ExecutionTimeMs,
		MemoryUsedMb:    rec.MemoryUsedMb,
		Succeeded:       rec.Succeeded,
		Metadata:        rec.Metadata,
	}
}

func (r *Reader) readJSON() (*ReadResult, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse results JSON: %w", err)
	}

	// Records are decoded one at a time so a single mistyped field skips
	// that record, not the run.
	out := &ReadResult{Samples: make([]sample.Sample, 0, len(records))}
	for i, raw := range records {
		var rec rawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			out.SkippedRows++
			r.log.Warn("skipping record %d: %v", i, err)
			continue
		}
		out.Samples = append(out.Samples, rec.toSample())
	}
	r.log.Info("read %d samples from %s (%d records skipped)", len(out.Samples), r.filePath, out.SkippedRows)
	return out, nil
}

func (r *Reader) readCSV() (*ReadResult, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}
	return r.processRows(rows)
}

func (r *Reader) readExcel() (*ReadResult, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use Sheet1, matching the harness export format.
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return r.processRows(rows)
}

// processRows converts tabular rows (header + data) into samples.
// Expected columns: task, implementation, scale, execution_time_ms,
// memory_used_mb, succeeded.
func (r *Reader) processRows(rows [][]string) (*ReadResult, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("results file must have a header row and at least one data row")
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"task", "implementation", "scale", "execution_time_ms", "memory_used_mb", "succeeded"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("results file missing column %q", required)
		}
	}

	out := &ReadResult{Samples: make([]sample.Sample, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			out.SkippedRows++
			r.log.Warn("skipping row %d: %v", i+2, err)
			continue
		}
		out.Samples = append(out.Samples, rec.toSample())
	}
	r.log.Info("read %d samples from %s (%d rows skipped)", len(out.Samples), r.filePath, out.SkippedRows)
	return out, nil
}

func parseRow(row []string, cols map[string]int) (rawRecord, error) {
	cell := func(name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	execTime, err := strconv.ParseFloat(cell("execution_time_ms"), 64)
	if err != nil {
		return rawRecord{}, fmt.Errorf("bad execution_time_ms %q", cell("execution_time_ms"))
	}
	memory, err := strconv.ParseFloat(cell("memory_used_mb"), 64)
	if err != nil {
		return rawRecord{}, fmt.Errorf("bad memory_used_mb %q", cell("memory_used_mb"))
	}
	succeeded, err := strconv.ParseBool(cell("succeeded"))
	if err != nil {
		return rawRecord{}, fmt.Errorf("bad succeeded %q", cell("succeeded"))
	}

	return rawRecord{
		Task:            cell("task"),
		Implementation:  cell("implementation"),
		Scale:           cell("scale"),
		ExecutionTimeMs: execTime,
		MemoryUsedMb:    memory,
		Succeeded:       succeeded,
	}, nil
}
