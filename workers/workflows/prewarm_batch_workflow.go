package workflows

import (
	"time"

	"github.com/vishal-24-1/Inzighted-G-sub000/workers/activities"
	"go.temporal.io/sdk/workflow"
)

// PrewarmQuestionBatchWorkflow generates a question batch ahead of time so
// the learner's first session on freshly ingested material starts warm.
func PrewarmQuestionBatchWorkflow(ctx workflow.Context, input PrewarmQuestionBatchWorkflowInput) error {
	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute * 10,
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	return workflow.ExecuteActivity(ctx, (*activities.Activities).PrewarmQuestionBatch,
		input.TenantTag, input.DocumentIDs, input.Language, input.Questions).Get(ctx, nil)
}
