package models

// Pagination contains pagination metadata returned with projected views.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListState describes the health of a screen's canonical list. When a read
// fails the last-good rows are kept and the error banner is populated.
type ListState struct {
	Loaded     bool   `json:"loaded"`
	Error      string `json:"error,omitempty"`
	AuthError  bool   `json:"auth_error,omitempty"`
	Generation uint64 `json:"-"`
}
