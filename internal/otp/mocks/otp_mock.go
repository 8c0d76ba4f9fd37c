package mocks

import (
	"time"

	"github.com/bashhack/otpcode/internal/otp"
)

// MockProvider is a mock implementation of the otp.Provider interface
type MockProvider struct {
	ParseFunc           func(secret string) (otp.Parameters, error)
	GenerateForTimeFunc func(secret string, t time.Time) (string, error)
	GenerateFunc        func(params otp.Parameters, t time.Time) (otp.Codes, error)
}

// Ensure MockProvider implements otp.Provider
var _ otp.Provider = (*MockProvider)(nil)

// Parse implements the otp.Provider interface
func (m *MockProvider) Parse(secret string) (otp.Parameters, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(secret)
	}
	return otp.Parameters{}, nil
}

// GenerateForTime implements the otp.Provider interface
func (m *MockProvider) GenerateForTime(secret string, t time.Time) (string, error) {
	if m.GenerateForTimeFunc != nil {
		return m.GenerateForTimeFunc(secret, t)
	}
	return "", nil
}

// Generate implements the otp.Provider interface
func (m *MockProvider) Generate(params otp.Parameters, t time.Time) (otp.Codes, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(params, t)
	}
	return otp.Codes{}, nil
}
