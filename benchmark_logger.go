package accel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BenchmarkResult captures the result of a single timed run.
type BenchmarkResult struct {
	Name      string        `json:"name"`
	Device    string        `json:"device"` // "cpu" or "gpu"
	Status    string        `json:"status"` // "pass" or "fail"
	Rows      int           `json:"rows,omitempty"`
	Cols      int           `json:"cols,omitempty"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// BenchmarkLogger accumulates benchmark results and flushes them to a JSON
// session file after every record, so a crash loses nothing.
type BenchmarkLogger struct {
	mu          sync.Mutex
	runID       string
	results     []BenchmarkResult
	logDir      string
	sessionFile string
}

var globalLogger = &BenchmarkLogger{
	logDir: "benchmark_logs",
}

// InitBenchmarkLogger starts a new benchmark session and returns its run ID.
func InitBenchmarkLogger(sessionName string) (string, error) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	if err := os.MkdirAll(globalLogger.logDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	globalLogger.runID = uuid.NewString()
	timestamp := time.Now().Format("20060102_150405")
	globalLogger.sessionFile = filepath.Join(globalLogger.logDir,
		fmt.Sprintf("%s_%s.json", sessionName, timestamp))
	globalLogger.results = nil

	return globalLogger.runID, globalLogger.flush()
}

// LogBenchmarkResult records a single result.
func LogBenchmarkResult(result BenchmarkResult) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	result.Timestamp = time.Now()
	globalLogger.results = append(globalLogger.results, result)
	globalLogger.flush()
}

// BenchmarkResults returns a copy of the results recorded this session.
func BenchmarkResults() []BenchmarkResult {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	out := make([]BenchmarkResult, len(globalLogger.results))
	copy(out, globalLogger.results)
	return out
}

// flush writes the session file. Callers hold the mutex.
func (l *BenchmarkLogger) flush() error {
	if l.sessionFile == "" {
		return nil
	}
	payload := struct {
		RunID   string            `json:"run_id"`
		Results []BenchmarkResult `json:"results"`
	}{RunID: l.runID, Results: l.results}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.sessionFile, data, 0o644)
}
