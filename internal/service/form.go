package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"userlookup/internal/model"
	"userlookup/internal/render"
	"userlookup/internal/usersapi"
)

// Form is one input/output pairing, e.g. a page's text box and result area.
// Submit may be called concurrently; calls are not serialized.
type Form struct {
	svc    *LookupService
	in     InputSource
	out    OutputSink
	notify Notifier

	mu  sync.Mutex
	gen uint64 // guarded by mu
}

// Submit reads the identifier, fetches it and writes the result to the
// output.
//
// A blank identifier notifies the user and returns ErrIdentifierRequired
// without a request. A non-2xx reply is rendered, not returned as an error.
// Transport and decode failures are reported as diagnostics, leave the output
// untouched, and are returned as *usersapi.TransportError or
// *usersapi.DecodeError.
func (f *Form) Submit(ctx context.Context) (model.Lookup, error) {
	start := f.svc.now()
	l := model.Lookup{
		ID:         uuid.NewString(),
		Identifier: strings.TrimSpace(f.in.Value()),
		CreatedAt:  start.UTC(),
	}

	if l.Identifier == "" {
		f.notify.Notify(IdentifierRequiredMessage)
		l.Outcome = model.OutcomeRejected
		f.svc.record(ctx, l)
		return l, ErrIdentifierRequired
	}

	ctx, span := tracer.Start(ctx, "lookup.submit", trace.WithAttributes(
		attribute.String("lookup.id", l.ID),
		attribute.String("lookup.policy", f.svc.policy.String()),
	))
	defer span.End()

	gen := f.begin()
	resp, err := f.svc.fetcher.FetchUser(ctx, l.Identifier)
	l.DurationMs = f.svc.now().Sub(start).Milliseconds()

	var frag render.Fragment
	if err == nil {
		l.Status = resp.Status
		frag, err = render.For(resp)
		if err != nil {
			err = &usersapi.DecodeError{Status: resp.Status, Body: resp.Body}
		}
	}
	if err != nil {
		l.Outcome = model.OutcomeTransportError
		if errors.Is(err, usersapi.ErrDecode) {
			l.Outcome = model.OutcomeDecodeError
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(l.Outcome))
		f.svc.report(ctx, newDiagnostic(l, err))
		f.svc.record(ctx, l)
		return l, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))

	l.Outcome = model.OutcomeRendered
	if !resp.OK() {
		l.Outcome = model.OutcomeServerError
	}
	if !f.write(gen, frag) {
		l.Outcome = model.OutcomeStale
	}
	f.svc.record(ctx, l)
	return l, nil
}

func (f *Form) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return f.gen
}

// write renders frag unless the policy says a newer submission owns the output.
func (f *Form) write(gen uint64, frag render.Fragment) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.svc.policy == LatestRequest && gen != f.gen {
		return false
	}
	f.out.Render(frag)
	return true
}
