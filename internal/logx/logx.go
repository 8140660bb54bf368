package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"distpack/internal/paths"
)

// RunLog is a per-invocation log file inside the project's logs directory.
type RunLog struct {
	*log.Logger
	Path string
	file *os.File
}

// Open creates a logger that writes to a timestamped file inside the
// project's logs directory.
func Open(p paths.ProjectPaths) (*RunLog, error) {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(p.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &RunLog{
		Logger: log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		Path:   filePath,
		file:   file,
	}, nil
}

// Close closes the underlying log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Discard returns a RunLog that writes nowhere.
func Discard() *RunLog {
	return &RunLog{Logger: log.New(io.Discard, "", 0)}
}
