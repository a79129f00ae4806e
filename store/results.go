package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	M "seqminer/model"
	P "seqminer/pattern"
	"time"

	"github.com/pkg/errors"
)

// Run is one persisted mining run over a stored dataset.
type Run struct {
	DatasetID string     `json:"dataset_id"`
	RunID     string     `json:"run_id"`
	Options   P.Options  `json:"options"`
	Stats     P.Stats    `json:"stats"`
	CreatedAt time.Time  `json:"created_at"`
	Results   []M.Result `json:"-"`
}

// Adjust scanner buffer capacity to 10MB per line.
const maxLineCapacity = 10 * 1024 * 1024

func CreateScannerFromReader(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineCapacity)
	return scanner
}

// WriteResultLines prints one "length support pattern" line per result.
func WriteResultLines(w io.Writer, results []M.Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := fmt.Fprintln(bw, r.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteResultsJSON writes one JSON encoded result per line.
func WriteResultsJSON(w io.Writer, results []M.Result) error {
	bw := bufio.NewWriter(w)
	encoder := json.NewEncoder(bw)
	for _, r := range results {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateResultsFromScanner reads results written by WriteResultsJSON.
func CreateResultsFromScanner(scanner *bufio.Scanner) ([]M.Result, error) {
	results := make([]M.Result, 0)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r M.Result
		if err := json.Unmarshal(line, &r); err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, scanner.Err()
}

// CreateReaderFromRun encodes a run as its header line followed by its
// results, one per line.
func CreateReaderFromRun(run *Run) (*bytes.Reader, error) {
	var buf bytes.Buffer
	header, err := json.Marshal(run)
	if err != nil {
		return nil, err
	}
	buf.Write(header)
	buf.WriteByte('\n')
	if err := WriteResultsJSON(&buf, run.Results); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}

// CreateRunFromScanner decodes the format of CreateReaderFromRun.
func CreateRunFromScanner(scanner *bufio.Scanner) (*Run, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty run file")
	}
	var run Run
	if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
		return nil, errors.Wrap(err, "invalid run header")
	}
	results, err := CreateResultsFromScanner(scanner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid run result")
	}
	run.Results = results
	return &run, nil
}
