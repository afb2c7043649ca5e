package mission

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the backend has finished with the job.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Data struct {
	Task        string   `json:"task"`
	Plan        []string `json:"plan"`
	Messages    []string `json:"messages"`
	CurrentCode string   `json:"current_code"`
	Errors      []string `json:"errors"`
}

// State is the reconciled view of one job. It is owned by a single session.
type State struct {
	JobID  string `json:"job_id"`
	Status Status `json:"status"`
	Data   Data   `json:"data"`
}

// Patch carries the fields present in one update. A nil pointer or nil slice
// means the field was absent and the previous value is kept.
type Patch struct {
	Task        *string  `json:"task,omitempty"`
	Plan        []string `json:"plan,omitempty"`
	Messages    []string `json:"messages,omitempty"`
	CurrentCode *string  `json:"current_code,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

type Kind string

const (
	KindSnapshot Kind = "snapshot"
	KindDelta    Kind = "delta"
)

type Event struct {
	Kind   Kind   `json:"kind"`
	JobID  string `json:"job_id,omitempty"`
	Status Status `json:"status,omitempty"`
	Data   Patch  `json:"data"`
}

func NewState(jobID string) State {
	return State{
		JobID:  jobID,
		Status: StatusQueued,
		Data: Data{
			Plan:     []string{},
			Messages: []string{},
			Errors:   []string{},
		},
	}
}

func String(s string) *string { return &s }
