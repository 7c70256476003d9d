package cookingagent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// RunLogger is the interface for pipeline audit logging.
type RunLogger interface {
	LogStep(step StepLog) error
}

// NewRunLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify specific logs produced with various models.
func NewRunLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	)
}

// StepLog represents a single step execution in a pipeline run
type StepLog struct {
	Step         string    `json:"step"`
	Timestamp    time.Time `json:"timestamp"`
	Skipped      bool      `json:"skipped,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	OracleOutput any       `json:"oracle_output,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// FileRunLogger logs to a file, accumulating steps and flushing at the end
type FileRunLogger struct {
	steps  []StepLog
	writer io.Writer
}

// NewFileRunLogger creates a new file-based run logger
func NewFileRunLogger(writer io.Writer) *FileRunLogger {
	return &FileRunLogger{
		steps:  make([]StepLog, 0),
		writer: writer,
	}
}

// LogStep logs a step to the buffer (does not flush immediately)
func (frl *FileRunLogger) LogStep(step StepLog) error {
	frl.steps = append(frl.steps, step)
	return nil
}

// Flush flushes all accumulated steps to the writer
func (frl *FileRunLogger) Flush() error {
	if frl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"pipeline_run": map[string]any{
			"timestamp": time.Now(),
			"steps":     frl.steps,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	if _, err := frl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}

	// Clear the buffer after successful write
	frl.steps = frl.steps[:0]
	return nil
}

// NoOpRunLogger is a logger that discards all log entries
type NoOpRunLogger struct{}

// NewNoOpRunLogger creates a new no-op run logger
func NewNoOpRunLogger() *NoOpRunLogger {
	return &NoOpRunLogger{}
}

// LogStep discards the step log (no-op)
func (nop *NoOpRunLogger) LogStep(step StepLog) error {
	return nil
}

// StdoutRunLogger logs each step as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutRunLogger struct{}

// NewStdoutRunLogger creates a new stdout-based run logger
func NewStdoutRunLogger() *StdoutRunLogger {
	return &StdoutRunLogger{}
}

// LogStep writes the step as a JSON line to os.Stdout
func (l *StdoutRunLogger) LogStep(step StepLog) error {
	data, err := json.Marshal(step)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
