package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWorkflowRun(t *testing.T) {
	runs := testutil.ToFloat64(WorkflowRuns.WithLabelValues(SourceManual, "success"))
	tasks := testutil.ToFloat64(TasksGenerated.WithLabelValues(SourceManual))

	RecordWorkflowRun(SourceManual, "success", 3, 5*time.Millisecond)

	if got := testutil.ToFloat64(WorkflowRuns.WithLabelValues(SourceManual, "success")); got != runs+1 {
		t.Errorf("workflow_runs_total = %v, want %v", got, runs+1)
	}
	if got := testutil.ToFloat64(TasksGenerated.WithLabelValues(SourceManual)); got != tasks+3 {
		t.Errorf("workflow_tasks_generated_total = %v, want %v", got, tasks+3)
	}
}

func TestRecordWorkflowRun_FailureAddsNoTasks(t *testing.T) {
	tasks := testutil.ToFloat64(TasksGenerated.WithLabelValues(SourceHorizon))

	RecordWorkflowRun(SourceHorizon, "not_found", 0, time.Millisecond)

	if got := testutil.ToFloat64(TasksGenerated.WithLabelValues(SourceHorizon)); got != tasks {
		t.Errorf("workflow_tasks_generated_total = %v, want unchanged %v", got, tasks)
	}
}

func TestRecordHorizonDecision(t *testing.T) {
	before := testutil.ToFloat64(HorizonDecisions.WithLabelValues("horizon_short"))
	RecordHorizonDecision("horizon_short")
	if got := testutil.ToFloat64(HorizonDecisions.WithLabelValues("horizon_short")); got != before+1 {
		t.Errorf("horizon_decisions_total = %v, want %v", got, before+1)
	}
}
