package workflows

type SessionInsightsWorkflowInput struct {
	SessionID string `json:"sessionId"`
}

type PrewarmQuestionBatchWorkflowInput struct {
	TenantTag   string   `json:"tenantTag"`
	DocumentIDs []string `json:"documentIds"`
	Language    string   `json:"language"`
	Questions   int      `json:"questions"`
}
