// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a MockSourceFSAdapter asserted at cleanup.
func NewMockSourceFSAdapter(t testingT) *MockSourceFSAdapter {
	ma := &MockSourceFSAdapter{}
	ma.Test(t)

	t.Cleanup(func() { ma.AssertExpectations(t) })

	return ma
}

// Get provides a mock function.
func (ma *MockSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.SourceUnit, error) {
	ret := ma.Called(ctx, paths, exclude)

	var units []m.SourceUnit
	if u, ok := ret.Get(0).([]m.SourceUnit); ok {
		units = u
	}

	return units, ret.Error(1)
}

// ReadFile provides a mock function.
func (ma *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	ret := ma.Called(ctx, path)

	var content []byte
	if c, ok := ret.Get(0).([]byte); ok {
		content = c
	}

	return content, ret.Error(1)
}

// FileInfo provides a mock function.
func (ma *MockSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	ret := ma.Called(ctx, path)

	var info os.FileInfo
	if i, ok := ret.Get(0).(os.FileInfo); ok {
		info = i
	}

	return info, ret.Error(1)
}

// MockToolRunnerAdapter is a mock of adapter.ToolRunnerAdapter.
type MockToolRunnerAdapter struct {
	mock.Mock
}

// NewMockToolRunnerAdapter creates a MockToolRunnerAdapter asserted at cleanup.
func NewMockToolRunnerAdapter(t testingT) *MockToolRunnerAdapter {
	ma := &MockToolRunnerAdapter{}
	ma.Test(t)

	t.Cleanup(func() { ma.AssertExpectations(t) })

	return ma
}

// RunTools provides a mock function.
func (ma *MockToolRunnerAdapter) RunTools(ctx context.Context, path m.Path, language m.Language) m.RawToolOutput {
	ret := ma.Called(ctx, path, language)

	raw, _ := ret.Get(0).(m.RawToolOutput)

	return raw
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a MockReportStore asserted at cleanup.
func NewMockReportStore(t testingT) *MockReportStore {
	ma := &MockReportStore{}
	ma.Test(t)

	t.Cleanup(func() { ma.AssertExpectations(t) })

	return ma
}

// SaveResults provides a mock function.
func (ma *MockReportStore) SaveResults(dir m.Path, results []m.AnalysisResult) (m.Path, error) {
	ret := ma.Called(dir, results)

	path, _ := ret.Get(0).(m.Path)

	return path, ret.Error(1)
}

// LoadResults provides a mock function.
func (ma *MockReportStore) LoadResults(path m.Path) ([]m.ReportRow, error) {
	ret := ma.Called(path)

	var rows []m.ReportRow
	if r, ok := ret.Get(0).([]m.ReportRow); ok {
		rows = r
	}

	return rows, ret.Error(1)
}
