package userservice

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockVerifier is an IdentityVerifier driven by testify expectations.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*GoogleProfile)
	return p, args.Error(1)
}
