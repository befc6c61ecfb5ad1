package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"userlookup/internal/model"
	"userlookup/internal/storage"
)

const diagnosticMessage = "Failed to fetch user data"

// ErrDiagnosticsDisabled is returned when no archive is configured.
var ErrDiagnosticsDisabled = errors.New("diagnostics archive disabled")

// Diagnostic describes a lookup that failed without a renderable response.
type Diagnostic struct {
	LookupID   string        `json:"lookup_id"`
	Identifier string        `json:"user_id"`
	Kind       model.Outcome `json:"kind"`
	Message    string        `json:"message"`
	Error      string        `json:"error"`
	Status     int           `json:"status,omitempty"`
	At         time.Time     `json:"at"`
}

func newDiagnostic(l model.Lookup, err error) Diagnostic {
	return Diagnostic{
		LookupID:   l.ID,
		Identifier: l.Identifier,
		Kind:       l.Outcome,
		Message:    diagnosticMessage,
		Error:      err.Error(),
		Status:     l.Status,
		At:         l.CreatedAt,
	}
}

// Diagnostics receives diagnostic entries. The service always logs them;
// a Diagnostics adds another destination.
type Diagnostics interface {
	Report(ctx context.Context, d Diagnostic) error
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(ctx context.Context, d Diagnostic) error

func (f DiagnosticsFunc) Report(ctx context.Context, d Diagnostic) error { return f(ctx, d) }

// DiagnosticKey is the object key a diagnostic is archived under.
func DiagnosticKey(lookupID string) string {
	return "diagnostics/" + lookupID + ".json"
}

// DiagnosticsArchive stores diagnostic entries as JSON objects.
type DiagnosticsArchive struct {
	store storage.Storage
}

// NewDiagnosticsArchive constructs a DiagnosticsArchive backed by store.
func NewDiagnosticsArchive(store storage.Storage) *DiagnosticsArchive {
	return &DiagnosticsArchive{store: store}
}

var _ Diagnostics = (*DiagnosticsArchive)(nil)

// Report uploads d under DiagnosticKey(d.LookupID).
func (a *DiagnosticsArchive) Report(ctx context.Context, d Diagnostic) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal diagnostic: %w", err)
	}
	_, err = a.store.Put(ctx, DiagnosticKey(d.LookupID), bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"lookup-id": d.LookupID,
			"kind":      string(d.Kind),
		},
	})
	if err != nil {
		return fmt.Errorf("archive diagnostic: %w", err)
	}
	return nil
}

// Link returns a time-limited download URL for a lookup's diagnostic.
func (a *DiagnosticsArchive) Link(ctx context.Context, lookupID string, expiry time.Duration) (string, error) {
	if a == nil {
		return "", ErrDiagnosticsDisabled
	}
	return a.store.PresignGet(ctx, DiagnosticKey(lookupID), expiry)
}
