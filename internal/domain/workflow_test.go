package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "perfeq.dev/pkg/perfeq/internal/adapter/mocks"
	controllermocks "perfeq.dev/pkg/perfeq/internal/controller/mocks"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

type workflowFixture struct {
	fs    *adaptermocks.MockSourceFSAdapter
	store *adaptermocks.MockReportStore
	tools *adaptermocks.MockToolRunnerAdapter
	ui    *controllermocks.MockUI
	wf    Workflow
}

func newWorkflowFixture(t *testing.T) workflowFixture {
	t.Helper()

	f := workflowFixture{
		fs:    adaptermocks.NewMockSourceFSAdapter(t),
		store: adaptermocks.NewMockReportStore(t),
		tools: adaptermocks.NewMockToolRunnerAdapter(t),
		ui:    controllermocks.NewMockUI(t),
	}

	f.wf = NewWorkflow(f.fs, f.store, f.ui, NewOrchestrator(f.tools), NewDecoder(0))

	return f
}

func (f workflowFixture) expectRun(ctx context.Context, units int, threads int) {
	f.ui.On("DisplayRunInfo", ctx, units, threads).Once()
	f.ui.On("Start", ctx, units).Return(nil).Once()
	f.ui.On("DisplayUnitAnalyzed", ctx, mock.Anything, mock.Anything).Times(units)
	f.ui.On("Close", ctx).Once()
}

func TestWorkflow_AnalyzeSingleUnitDisplaysResult(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	unit := m.SourceUnit{
		Path:     "app.py",
		Text:     "userName = 'x'\ndef calculateSum(a, b):\n    return a + b\n",
		Language: m.LanguagePython,
	}

	f.fs.On("Get", ctx, []m.Path{"app.py"}, []string{"vendor/"}).Return([]m.SourceUnit{unit}, nil).Once()
	f.tools.On("RunTools", ctx, unit.Path, unit.Language).Return(m.RawToolOutput{Outputs: []m.ToolOutput{{
		Command: "pylint app.py",
		Text: "app.py:1:0: C0103: Constant name \"userName\" doesn't conform to UPPER_CASE naming style (invalid-name)\n" +
			"app.py:2:0: C0103: Function name \"calculateSum\" doesn't conform to snake_case naming style (invalid-name)\n",
	}}}).Once()

	f.expectRun(ctx, 1, 2)
	f.ui.On("DisplayResult", ctx, mock.MatchedBy(func(result m.AnalysisResult) bool {
		return result.Path == "app.py" && len(result.Warnings) == 2
	})).Return(nil).Once()

	results, err := f.wf.Analyze(ctx, AnalyzeArgs{
		Paths:   []m.Path{"app.py"},
		Exclude: []string{"vendor/"},
		Reports: "results",
		Threads: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 3, result.LinesOfCode)
	assert.Equal(t, m.StructuralCount{Variables: 1, Functions: 1}, result.Counts)
	assert.Equal(t, m.CategoryTally{Variable: 1, Function: 1}, result.Tally)
	assert.InDelta(t, 2.0/3.0, result.Metrics.WarningsPerLine, 1e-9)
	assert.InDelta(t, 1.0, result.Metrics.VariableWarningRate, 1e-9)
	assert.InDelta(t, 1.0, result.Metrics.FunctionWarningRate, 1e-9)
	assert.Zero(t, result.Metrics.FormattingWarningRate)

	f.store.AssertNotCalled(t, "SaveResults", mock.Anything, mock.Anything)
}

func TestWorkflow_AnalyzeManyUnitsSavesReport(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	units := []m.SourceUnit{
		{Path: "a.c", Text: "int x;\n", Language: m.LanguageC},
		{Path: "b.py", Text: "y = 2\n", Language: m.LanguagePython},
	}

	f.fs.On("Get", ctx, []m.Path{"."}, []string(nil)).Return(units, nil).Once()
	f.tools.On("RunTools", ctx, m.Path("a.c"), m.LanguageC).Return(m.RawToolOutput{Outputs: []m.ToolOutput{{
		Text: "a.c:1:  Missing space  [whitespace/braces] [5]\n",
	}}}).Once()
	f.tools.On("RunTools", ctx, m.Path("b.py"), m.LanguagePython).Return(m.RawToolOutput{}).Once()

	f.expectRun(ctx, 2, 4)

	inOrder := mock.MatchedBy(func(results []m.AnalysisResult) bool {
		return len(results) == 2 && results[0].Path == "a.c" && results[1].Path == "b.py"
	})

	f.store.On("SaveResults", m.Path("out"), inOrder).Return(m.Path("out/perfeq_output.csv"), nil).Once()
	f.ui.On("DisplaySummary", ctx, inOrder, m.Path("out/perfeq_output.csv")).Return(nil).Once()

	results, err := f.wf.Analyze(ctx, AnalyzeArgs{
		Paths:   []m.Path{"."},
		Reports: "out",
		Threads: 4,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, m.CategoryTally{Formatting: 1}, results[0].Tally)
	assert.InDelta(t, 1.0, results[0].Metrics.FormattingWarningRate, 1e-9)
	assert.Empty(t, results[1].Warnings)

	f.ui.AssertNotCalled(t, "DisplayResult", mock.Anything, mock.Anything)
}

func TestWorkflow_AnalyzeSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	units := []m.SourceUnit{
		{Path: "a.py", Language: m.LanguagePython},
		{Path: "b.py", Language: m.LanguagePython},
	}

	f.fs.On("Get", ctx, []m.Path{"src"}, []string(nil)).Return(units, nil).Once()
	f.tools.On("RunTools", ctx, mock.Anything, m.LanguagePython).Return(m.RawToolOutput{}).Twice()
	f.expectRun(ctx, 2, 1)

	saveErr := errors.New("read-only file system")
	f.store.On("SaveResults", m.Path("results"), mock.Anything).Return(m.Path(""), saveErr).Once()

	results, err := f.wf.Analyze(ctx, AnalyzeArgs{Paths: []m.Path{"src"}, Reports: "results", Threads: 1})

	require.ErrorIs(t, err, saveErr)
	assert.Len(t, results, 2)
}

func TestWorkflow_AnalyzeDiscoveryErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	missing := errors.New("no such file or directory")
	f.fs.On("Get", ctx, []m.Path{"missing"}, []string(nil)).Return(nil, missing).Once()

	results, err := f.wf.Analyze(ctx, AnalyzeArgs{Paths: []m.Path{"missing"}})

	require.ErrorIs(t, err, missing)
	assert.Nil(t, results)
	f.ui.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestWorkflow_AnalyzeNoSources(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	f.fs.On("Get", ctx, []m.Path{"docs"}, []string(nil)).Return([]m.SourceUnit{}, nil).Once()

	_, err := f.wf.Analyze(ctx, AnalyzeArgs{Paths: []m.Path{"docs"}})

	require.ErrorIs(t, err, ErrNoSources)
}

func TestWorkflow_AnalyzeUIStartFailure(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	f.fs.On("Get", ctx, []m.Path{"a.py"}, []string(nil)).
		Return([]m.SourceUnit{{Path: "a.py", Language: m.LanguagePython}}, nil).Once()

	startErr := errors.New("terminal gone")
	f.ui.On("DisplayRunInfo", ctx, 1, 1).Once()
	f.ui.On("Start", ctx, 1).Return(startErr).Once()

	_, err := f.wf.Analyze(ctx, AnalyzeArgs{Paths: []m.Path{"a.py"}, Threads: 1})

	require.ErrorIs(t, err, startErr)
	f.tools.AssertNotCalled(t, "RunTools", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_View(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	rows := []m.ReportRow{{CodeID: "a.py", LOC: "10"}}

	f.store.On("LoadResults", m.Path("results/perfeq_output.csv")).Return(rows, nil).Once()
	f.ui.On("DisplayReport", ctx, rows).Return(nil).Once()

	require.NoError(t, f.wf.View(ctx, "results/perfeq_output.csv"))
}

func TestWorkflow_ViewLoadError(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t)

	loadErr := errors.New("malformed report")
	f.store.On("LoadResults", m.Path("bad.csv")).Return(nil, loadErr).Once()

	err := f.wf.View(ctx, "bad.csv")

	require.ErrorIs(t, err, loadErr)
	f.ui.AssertNotCalled(t, "DisplayReport", mock.Anything, mock.Anything)
}
