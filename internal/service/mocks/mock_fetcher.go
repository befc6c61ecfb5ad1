package mocks

import (
	"context"

	"userlookup/internal/model"
	"userlookup/internal/usersapi"

	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchUser(ctx context.Context, id string) (*usersapi.Response, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usersapi.Response), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, l model.Lookup) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
