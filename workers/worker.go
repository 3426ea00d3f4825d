package workers

import (
	"context"

	"github.com/vishal-24-1/Inzighted-G-sub000/workers/activities"
	"github.com/vishal-24-1/Inzighted-G-sub000/workers/workflows"
	temporalClient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// NewWorker builds the temporal worker carrying the insight and prewarm
// workflows.
func NewWorker(c temporalClient.Client, taskQueue string, acts *activities.Activities) worker.Worker {
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.SessionInsightsWorkflow)
	w.RegisterWorkflow(workflows.PrewarmQuestionBatchWorkflow)
	w.RegisterActivity(acts)
	return w
}

// TemporalInsightTrigger starts the insight workflow when a session
// completes. Workflow ids are derived from the session id, so duplicate
// triggers collapse onto the running workflow.
type TemporalInsightTrigger struct {
	client    temporalClient.Client
	taskQueue string
}

func NewTemporalInsightTrigger(c temporalClient.Client, taskQueue string) *TemporalInsightTrigger {
	return &TemporalInsightTrigger{client: c, taskQueue: taskQueue}
}

func (t *TemporalInsightTrigger) Trigger(ctx context.Context, sessionID string) error {
	_, err := t.client.ExecuteWorkflow(ctx, temporalClient.StartWorkflowOptions{
		ID:        "session-insights-" + sessionID,
		TaskQueue: t.taskQueue,
	}, workflows.SessionInsightsWorkflow, workflows.SessionInsightsWorkflowInput{SessionID: sessionID})
	return err
}
