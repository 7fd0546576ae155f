// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI whose expectations are asserted at cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mu := &MockUI{}
	mu.Test(t)

	t.Cleanup(func() { mu.AssertExpectations(t) })

	return mu
}

// Start provides a mock function.
func (mu *MockUI) Start(ctx context.Context, total int) error {
	ret := mu.Called(ctx, total)
	return ret.Error(0)
}

// Close provides a mock function.
func (mu *MockUI) Close(ctx context.Context) {
	mu.Called(ctx)
}

// DisplayRunInfo provides a mock function.
func (mu *MockUI) DisplayRunInfo(ctx context.Context, units int, threads int) {
	mu.Called(ctx, units, threads)
}

// DisplayUnitAnalyzed provides a mock function.
func (mu *MockUI) DisplayUnitAnalyzed(ctx context.Context, unit m.SourceUnit, raw m.RawToolOutput) {
	mu.Called(ctx, unit, raw)
}

// DisplayResult provides a mock function.
func (mu *MockUI) DisplayResult(ctx context.Context, result m.AnalysisResult) error {
	ret := mu.Called(ctx, result)
	return ret.Error(0)
}

// DisplaySummary provides a mock function.
func (mu *MockUI) DisplaySummary(ctx context.Context, results []m.AnalysisResult, reportPath m.Path) error {
	ret := mu.Called(ctx, results, reportPath)
	return ret.Error(0)
}

// DisplayReport provides a mock function.
func (mu *MockUI) DisplayReport(ctx context.Context, rows []m.ReportRow) error {
	ret := mu.Called(ctx, rows)
	return ret.Error(0)
}
