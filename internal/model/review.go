package model

// ReviewStatus is the backend's informational classification of a
// rating. The vocabulary is backend-defined; these are the values the
// current backend emits.
type ReviewStatus string

const (
	StatusGood   ReviewStatus = "Good"
	StatusMedium ReviewStatus = "Medium"
	StatusBad    ReviewStatus = "Bad"
)

// ReviewResult is one contributor's generated review.
type ReviewResult struct {
	ContributorID int64        `json:"contributor_id,omitempty"`
	Login         string       `json:"login"`
	Name          string       `json:"name,omitempty"`
	Email         string       `json:"email,omitempty"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
	MergeCount    int          `json:"merge_count"`
	Rating        float64      `json:"rating"`
	Status        ReviewStatus `json:"status"`
	ReportFile    string       `json:"report_filename,omitempty"`

	// Pending marks a synthetic placeholder shown while the real
	// result is still being generated.
	Pending bool `json:"pending,omitempty"`
}

// PlaceholderResult returns the zero-valued result displayed for a
// contributor whose report is still pending.
func PlaceholderResult(c Contributor) ReviewResult {
	return ReviewResult{
		ContributorID: c.ID,
		Login:         c.Login,
		Name:          c.Name,
		Email:         c.Email,
		AvatarURL:     c.AvatarURL,
		MergeCount:    c.MergeCount,
		Rating:        0,
		Status:        StatusGood,
		Pending:       true,
	}
}

// TaskState is the lifecycle state reported by the report backend for
// an asynchronous generation task.
type TaskState string

const (
	TaskPending              TaskState = "pending"
	TaskProcessing           TaskState = "processing"
	TaskPartial              TaskState = "partial"
	TaskCompleted            TaskState = "completed"
	TaskFailed               TaskState = "failed"
	TaskCompletedEmailFailed TaskState = "completed-email-failed"
	TaskCompletedNoEmail     TaskState = "completed-no-email"
)

// Terminal reports whether the state ends the polling loop.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCompletedEmailFailed, TaskCompletedNoEmail:
		return true
	}
	return false
}

// TaskStatus is one status snapshot for an asynchronous task.
// A login appears in at most one of Completed/Failed per snapshot.
type TaskStatus struct {
	TaskID                string                  `json:"task_id"`
	State                 TaskState               `json:"status"`
	PendingContributors   []string                `json:"pending_contributors,omitempty"`
	CompletedContributors []string                `json:"completed_contributors,omitempty"`
	FailedContributors    []string                `json:"failed_contributors,omitempty"`
	ProcessingContributor string                  `json:"processing_contributor,omitempty"`
	Results               map[string]ReviewResult `json:"results,omitempty"`
	Result                *ReviewResult           `json:"result,omitempty"`
	Error                 string                  `json:"error,omitempty"`
}
