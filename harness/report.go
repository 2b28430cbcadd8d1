package harness

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// WriteFailureReport persists a plain-text summary of every failed trial in
// the batch, named with a timestamp under dir. This is the only file the
// orchestration core writes; callers treat a write failure as non-fatal.
func WriteFailureReport(dir string, res *BatchResult) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("failure_report_%s.txt", res.Ended.Format("20060102_150405")))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating failure report: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "Batch failure report (%s)\n", res.Ended.Format(time.RFC3339))
	fmt.Fprintf(w, "Total: %d  Successful: %d  Failed: %d  Success rate: %.1f%%\n\n",
		res.Total, res.Successful, res.Failed, res.SuccessRate())

	names := make([]string, 0, len(res.Outcomes))
	for name, out := range res.Outcomes {
		if !out.Success {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		out := res.Outcomes[name]
		fmt.Fprintf(w, "config %q: failed after %d attempt(s)\n", name, out.Attempts)
		fmt.Fprintf(w, "  error: %v\n", out.Err)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("writing failure report: %w", err)
	}
	return path, nil
}
