package workflows

import (
	"time"

	"github.com/vishal-24-1/Inzighted-G-sub000/workers/activities"
	"go.temporal.io/sdk/workflow"
)

// SessionInsightsWorkflow synthesizes and stores the summary of a
// completed session off the request path.
func SessionInsightsWorkflow(ctx workflow.Context, input SessionInsightsWorkflowInput) error {
	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute * 5,
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	return workflow.ExecuteActivity(ctx, (*activities.Activities).SynthesizeSessionInsights, input.SessionID).Get(ctx, nil)
}
