// Package audit records operator actions on stored tokens as JSON lines.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Event represents an audit log event.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Action    string    `json:"action"`
	Operator  string    `json:"operator,omitempty"`
	Target    string    `json:"target,omitempty"`  // token fingerprint, never the token value
	Details   string    `json:"details,omitempty"` // Additional details
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"` // Error message if the action failed
	TraceID   string    `json:"trace_id,omitempty"`
}

// Logger writes audit events to a dedicated output.
type Logger struct {
	out      zerolog.Logger
	service  string
	operator string
	now      func() time.Time
}

// New creates a Logger writing to w. Every event carries service and
// operator.
func New(w io.Writer, service, operator string) *Logger {
	return &Logger{
		out:      zerolog.New(w),
		service:  service,
		operator: operator,
		now:      time.Now,
	}
}

// Record logs the outcome of action on target. A nil err marks success.
func (l *Logger) Record(ctx context.Context, action, target, details string, err error) {
	event := Event{
		Timestamp: l.now().UTC(),
		Service:   l.service,
		Action:    action,
		Operator:  l.operator,
		Target:    target,
		Details:   details,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		event.TraceID = sc.TraceID().String()
	}

	entry, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		// Fallback to unstructured logging if JSON marshaling fails
		log.Error().Err(marshalErr).Msg("Failed to marshal audit event to JSON")
		l.out.Error().
			Str("action", action).
			Str("target", target).
			Bool("success", event.Success).
			Err(err).
			Msg("Audit Log (fallback)")
		return
	}

	l.out.Log().RawJSON("audit_event", entry).Msg("")
}
