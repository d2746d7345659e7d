package models

// Session is the identity handed over by the external auth flow. It is
// constructed when the OAuth callback lands and torn down on logout; nothing
// in this service looks identity up ambiently.
type Session struct {
	AccountID  string `json:"account_id"`
	Handle     string `json:"handle"`
	Appearance string `json:"appearance"`
}

type ScheduledJob struct {
	JobID     string `json:"job_id"`
	Name      string `json:"name"`
	RunDate   string `json:"run_date"`
	AccountID string `json:"account_id"`
}
