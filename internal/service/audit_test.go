package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userlookup/internal/model"
	repoMocks "userlookup/internal/repository/mocks"
)

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()
	l := model.Lookup{ID: "id-1", Identifier: "42", Outcome: model.OutcomeRendered, Status: 200}

	t.Run("stores", func(t *testing.T) {
		mRepo := new(repoMocks.MockLookupRepository)
		mRepo.On("Create", ctx, &l).Return(nil).Once()

		assert.NoError(t, NewAuditService(mRepo).Record(ctx, l))
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockLookupRepository)
		mRepo.On("Create", ctx, mock.Anything).Return(errors.New("db fail")).Once()

		err := NewAuditService(mRepo).Record(ctx, l)
		assert.EqualError(t, err, "store lookup: db fail")
	})

	t.Run("disabled", func(t *testing.T) {
		var s *AuditService
		assert.ErrorIs(t, s.Record(ctx, l), ErrAuditDisabled)
	})
}

func TestAuditService_Recent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: 0, wantLimit: 20},
		{name: "negative", limit: -3, wantLimit: 20},
		{name: "within range", limit: 5, wantLimit: 5},
		{name: "clamped", limit: 500, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockLookupRepository)
			mRepo.On("Recent", ctx, tt.wantLimit).Return([]model.Lookup{{ID: "a"}}, nil).Once()

			items, err := NewAuditService(mRepo).Recent(ctx, tt.limit)

			assert.NoError(t, err)
			assert.Len(t, items, 1)
			mRepo.AssertExpectations(t)
		})
	}

	t.Run("disabled", func(t *testing.T) {
		var s *AuditService
		_, err := s.Recent(ctx, 10)
		assert.ErrorIs(t, err, ErrAuditDisabled)
	})
}
