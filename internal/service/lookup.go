package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"userlookup/internal/model"
	"userlookup/internal/render"
	"userlookup/internal/usersapi"
)

// IdentifierRequiredMessage is shown when the form is submitted empty.
const IdentifierRequiredMessage = "Please enter a User ID"

// ErrIdentifierRequired is returned by Submit for an empty or blank identifier.
var ErrIdentifierRequired = errors.New("user id is required")

var tracer = otel.Tracer("userlookup/internal/service")

// Fetcher performs the users endpoint request.
type Fetcher interface {
	FetchUser(ctx context.Context, id string) (*usersapi.Response, error)
}

// InputSource supplies the identifier typed by the user.
type InputSource interface {
	Value() string
}

// OutputSink receives the rendered fragment, replacing whatever it showed before.
type OutputSink interface {
	Render(f render.Fragment)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(msg string)
}

// Recorder observes every finished lookup.
type Recorder interface {
	Record(ctx context.Context, l model.Lookup) error
}

// InputFunc adapts a function to InputSource.
type InputFunc func() string

func (f InputFunc) Value() string { return f() }

// SinkFunc adapts a function to OutputSink.
type SinkFunc func(render.Fragment)

func (f SinkFunc) Render(fr render.Fragment) { f(fr) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Policy decides which of several overlapping lookups on one form may write
// to the output.
type Policy uint8

const (
	// LastResolved lets every response write; the last one to arrive wins.
	LastResolved Policy = iota
	// LatestRequest lets only the most recently submitted lookup write.
	LatestRequest
)

func (p Policy) String() string {
	switch p {
	case LastResolved:
		return "last-resolved"
	case LatestRequest:
		return "latest-request"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-resolved":
		return LastResolved, nil
	case "latest-request":
		return LatestRequest, nil
	default:
		return 0, fmt.Errorf("unknown render policy %q", s)
	}
}

// Option configures a LookupService.
type Option func(*LookupService)

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *LookupService) { s.logger = l }
}

// WithDiagnostics adds a sink that receives every diagnostic entry in
// addition to the log.
func WithDiagnostics(d Diagnostics) Option {
	return func(s *LookupService) { s.diagnostics = append(s.diagnostics, d) }
}

// WithRecorder adds a Recorder.
func WithRecorder(r Recorder) Option {
	return func(s *LookupService) { s.recorders = append(s.recorders, r) }
}

// WithPolicy sets the overlap policy. Defaults to LastResolved.
func WithPolicy(p Policy) Option {
	return func(s *LookupService) { s.policy = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LookupService) { s.now = now }
}

// LookupService holds what every form shares: the fetcher and the
// diagnostic and recording sinks. It is safe for concurrent use.
type LookupService struct {
	fetcher     Fetcher
	logger      *slog.Logger
	diagnostics []Diagnostics
	recorders   []Recorder
	policy      Policy
	now         func() time.Time
}

// NewLookupService constructs a LookupService.
func NewLookupService(fetcher Fetcher, opts ...Option) *LookupService {
	s := &LookupService{
		fetcher: fetcher,
		logger:  slog.Default(),
		policy:  LastResolved,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the overlap policy forms created by s follow.
func (s *LookupService) Policy() Policy { return s.policy }

// NewForm binds the service to one input, one output and one notifier.
func (s *LookupService) NewForm(in InputSource, out OutputSink, n Notifier) *Form {
	return &Form{svc: s, in: in, out: out, notify: n}
}

func (s *LookupService) report(ctx context.Context, d Diagnostic) {
	s.logger.ErrorContext(ctx, diagnosticMessage,
		"lookup_id", d.LookupID,
		"user_id", d.Identifier,
		"kind", d.Kind,
		"status", d.Status,
		"error", d.Error,
	)
	for _, sink := range s.diagnostics {
		if err := sink.Report(ctx, d); err != nil {
			s.logger.WarnContext(ctx, "diagnostic sink failed", "lookup_id", d.LookupID, "error", err)
		}
	}
}

func (s *LookupService) record(ctx context.Context, l model.Lookup) {
	for _, r := range s.recorders {
		if err := r.Record(ctx, l); err != nil {
			s.logger.WarnContext(ctx, "lookup recorder failed", "lookup_id", l.ID, "error", err)
		}
	}
}
