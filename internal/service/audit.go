package service

import (
	"context"
	"errors"
	"fmt"

	"userlookup/internal/model"
	"userlookup/internal/repository"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// ErrAuditDisabled is returned when no audit repository is configured.
var ErrAuditDisabled = errors.New("lookup audit disabled")

// AuditService keeps a log of lookup outcomes. A nil *AuditService is a
// valid, disabled audit log.
type AuditService struct {
	repo repository.LookupRepository
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo repository.LookupRepository) *AuditService {
	return &AuditService{repo: repo}
}

var _ Recorder = (*AuditService)(nil)

// Record stores l.
func (s *AuditService) Record(ctx context.Context, l model.Lookup) error {
	if s == nil {
		return ErrAuditDisabled
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return fmt.Errorf("store lookup: %w", err)
	}
	return nil
}

// Recent returns the newest lookups. Limits outside 1..100 are clamped;
// zero or less means 20.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.Lookup, error) {
	if s == nil {
		return nil, ErrAuditDisabled
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}
