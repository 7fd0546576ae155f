// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"perfeq.dev/pkg/perfeq/internal/domain"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mw := &MockWorkflow{}
	mw.Test(t)

	t.Cleanup(func() { mw.AssertExpectations(t) })

	return mw
}

// Analyze provides a mock function.
func (mw *MockWorkflow) Analyze(ctx context.Context, args domain.AnalyzeArgs) ([]m.AnalysisResult, error) {
	ret := mw.Called(ctx, args)

	var results []m.AnalysisResult
	if r, ok := ret.Get(0).([]m.AnalysisResult); ok {
		results = r
	}

	return results, ret.Error(1)
}

// View provides a mock function.
func (mw *MockWorkflow) View(ctx context.Context, report m.Path) error {
	ret := mw.Called(ctx, report)
	return ret.Error(0)
}
