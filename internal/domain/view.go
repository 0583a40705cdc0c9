package domain

// Status enumerates the mutually exclusive view states.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusResult  Status = "result"
	StatusError   Status = "error"
)

// ViewState is the single source of truth for what the UI displays. Result
// is only set in StatusResult and Message only in StatusError.
type ViewState struct {
	Status  Status            `json:"status"`
	Prompt  string            `json:"prompt"`
	Quality Quality           `json:"quality"`
	Result  *GenerationResult `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (v ViewState) Loading() bool {
	return v.Status == StatusLoading
}

// Settled reports whether the state has a Result or an Error.
func (v ViewState) Settled() bool {
	return v.Status == StatusResult || v.Status == StatusError
}

// Clone returns a copy that does not share the Result pointer.
func (v ViewState) Clone() ViewState {
	if v.Result != nil {
		r := *v.Result
		v.Result = &r
	}
	return v
}
