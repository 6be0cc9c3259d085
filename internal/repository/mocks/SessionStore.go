package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// SessionStore is a mock type for the SessionStore type
type SessionStore struct {
	mock.Mock
}

// Revoke provides a mock function with given fields: ctx, sessionID, expiresAt
func (_m *SessionStore) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ret := _m.Called(ctx, sessionID, expiresAt)
	return ret.Error(0)
}

// IsRevoked provides a mock function with given fields: ctx, sessionID
func (_m *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	ret := _m.Called(ctx, sessionID)
	return ret.Bool(0), ret.Error(1)
}
