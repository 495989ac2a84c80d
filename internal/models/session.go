package models

// Session identifies the acting user of a request. It is passed explicitly to every
// command and query instead of living in process-wide state.
type Session struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
