package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileReporter appends failures to a file as JSON lines. Every record is
// synced to disk immediately so a crash right after the shutdown pass
// cannot lose it.
type FileReporter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileReporter creates a reporter that appends to the file at path.
func NewFileReporter(path string) (*FileReporter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return &FileReporter{file: file}, nil
}

// Report implements Reporter.
func (r *FileReporter) Report(f Failure) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal failure: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write failure report: %w", err)
	}
	if err := r.file.Sync(); err != nil {
		return fmt.Errorf("sync report file: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (r *FileReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
