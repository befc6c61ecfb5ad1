package mocks

import (
	"context"

	"userlookup/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) Create(ctx context.Context, l *model.Lookup) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLookupRepository) Recent(ctx context.Context, limit int) ([]model.Lookup, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lookup), args.Error(1)
}
