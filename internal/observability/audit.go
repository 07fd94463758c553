package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventAnalyzeStart    AuditEventType = "analyze.start"
	AuditEventAnalyzeComplete AuditEventType = "analyze.complete"
	AuditEventAnalyzeError    AuditEventType = "analyze.error"
	AuditEventFactsRead       AuditEventType = "facts.read"
	AuditEventStoreConnect    AuditEventType = "store.connect"
	AuditEventStoreWrite      AuditEventType = "store.write"
	AuditEventExport          AuditEventType = "export"
	AuditEventSnapshotSave    AuditEventType = "snapshot.save"
	AuditEventWorkflowStart   AuditEventType = "workflow.start"
	AuditEventWorkflowEnd     AuditEventType = "workflow.end"
)

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	EventType   AuditEventType         `json:"event_type"`
	SessionID   string                 `json:"session_id"`
	WorkflowID  string                 `json:"workflow_id,omitempty"`
	Success     bool                   `json:"success"`
	Duration    time.Duration          `json:"duration_ms,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	ErrorDetail string                 `json:"error_detail,omitempty"`
}

// AuditLogger writes audit events as JSONL.
type AuditLogger struct {
	mu        sync.Mutex
	writer    io.Writer
	sessionID string
	enabled   bool
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Enabled    bool
	OutputPath string // File path or "stdout"/"stderr"
	SessionID  string
}

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:    true,
		OutputPath: "stdout",
	}
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(config *AuditConfig) (*AuditLogger, error) {
	if config == nil {
		config = DefaultAuditConfig()
	}

	var writer io.Writer
	switch config.OutputPath {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		writer = f
	}

	sessionID := config.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	return &AuditLogger{
		writer:    writer,
		sessionID: sessionID,
		enabled:   config.Enabled,
	}, nil
}

// Log writes an audit event.
func (l *AuditLogger) Log(event *AuditEvent) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	_, err = fmt.Fprintf(l.writer, "%s\n", data)
	return err
}

// LogAnalyzeStart logs the start of an analysis run.
func (l *AuditLogger) LogAnalyzeStart(ctx context.Context, workflowID, factsPath string, factCount int) {
	l.Log(&AuditEvent{
		EventType:  AuditEventAnalyzeStart,
		WorkflowID: workflowID,
		Success:    true,
		Message:    fmt.Sprintf("Analysis started over %s", factsPath),
		Details: map[string]interface{}{
			"facts_path": factsPath,
			"fact_count": factCount,
		},
	})
}

// LogAnalyzeComplete logs a completed analysis run.
func (l *AuditLogger) LogAnalyzeComplete(ctx context.Context, workflowID string, duration time.Duration, cycleCount, findingCount int) {
	l.Log(&AuditEvent{
		EventType:  AuditEventAnalyzeComplete,
		WorkflowID: workflowID,
		Success:    true,
		Duration:   duration,
		Message:    "Analysis completed",
		Details: map[string]interface{}{
			"cycle_count":   cycleCount,
			"finding_count": findingCount,
		},
	})
}

// LogAnalyzeError logs a failed analysis run.
func (l *AuditLogger) LogAnalyzeError(ctx context.Context, workflowID string, err error) {
	l.Log(&AuditEvent{
		EventType:   AuditEventAnalyzeError,
		WorkflowID:  workflowID,
		Success:     false,
		Message:     "Analysis failed",
		ErrorDetail: err.Error(),
	})
}

// LogFactsRead logs a facts file read.
func (l *AuditLogger) LogFactsRead(ctx context.Context, path string, factCount int) {
	l.Log(&AuditEvent{
		EventType: AuditEventFactsRead,
		Success:   true,
		Message:   fmt.Sprintf("Read %d facts from %s", factCount, path),
		Details: map[string]interface{}{
			"path":       path,
			"fact_count": factCount,
		},
	})
}

// LogStoreWrite logs a graph store write.
func (l *AuditLogger) LogStoreWrite(ctx context.Context, uri string, success bool, duration time.Duration, errMsg string) {
	event := &AuditEvent{
		EventType: AuditEventStoreWrite,
		Success:   success,
		Duration:  duration,
		Message:   fmt.Sprintf("Graph store write to %s", uri),
		Details: map[string]interface{}{
			"uri": uri,
		},
	}
	if errMsg != "" {
		event.ErrorDetail = errMsg
	}
	l.Log(event)
}

// LogExport logs a graph export.
func (l *AuditLogger) LogExport(ctx context.Context, graphName, format string, size int) {
	l.Log(&AuditEvent{
		EventType: AuditEventExport,
		Success:   true,
		Message:   fmt.Sprintf("Exported %s as %s", graphName, format),
		Details: map[string]interface{}{
			"graph":  graphName,
			"format": format,
			"size":   size,
		},
	})
}

// LogSnapshotSave logs a snapshot save.
func (l *AuditLogger) LogSnapshotSave(ctx context.Context, id, tag string) {
	l.Log(&AuditEvent{
		EventType: AuditEventSnapshotSave,
		Success:   true,
		Message:   fmt.Sprintf("Saved snapshot %s", id),
		Details: map[string]interface{}{
			"id":  id,
			"tag": tag,
		},
	})
}

// LogWorkflowStart logs a workflow start event.
func (l *AuditLogger) LogWorkflowStart(ctx context.Context, workflowID, factsPath string) {
	l.Log(&AuditEvent{
		EventType:  AuditEventWorkflowStart,
		WorkflowID: workflowID,
		Success:    true,
		Message:    "Workflow started",
		Details: map[string]interface{}{
			"facts_path": factsPath,
		},
	})
}

// LogWorkflowEnd logs a workflow completion event.
func (l *AuditLogger) LogWorkflowEnd(ctx context.Context, workflowID string, success bool, duration time.Duration, cycleCount int) {
	l.Log(&AuditEvent{
		EventType:  AuditEventWorkflowEnd,
		WorkflowID: workflowID,
		Success:    success,
		Duration:   duration,
		Message:    fmt.Sprintf("Workflow completed: %d cycles", cycleCount),
		Details: map[string]interface{}{
			"cycle_count": cycleCount,
		},
	})
}

// Close closes the audit logger (if using a file).
func (l *AuditLogger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}
	return nil
}

// Global audit logger instance
var globalAuditLogger *AuditLogger
var auditOnce sync.Once

// InitGlobalAuditLogger initializes the global audit logger.
func InitGlobalAuditLogger(config *AuditConfig) error {
	var err error
	auditOnce.Do(func() {
		globalAuditLogger, err = NewAuditLogger(config)
	})
	return err
}

// Audit returns the global audit logger. Returns a disabled logger if
// never initialized.
func Audit() *AuditLogger {
	if globalAuditLogger == nil {
		return &AuditLogger{enabled: false}
	}
	return globalAuditLogger
}
