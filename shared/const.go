package shared

const (
	UserID    = "user_id"
	SessionID = "session_id"

	RequestID       = "request_id"
	RequestStart    = "request_start"
	RateLimitStatus = "rate_limit_status"

	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	DocumentationURL = "https://docs.cliphive.app/api"

	ReportReasonSpam     = "spam"
	ReportReasonAbuse    = "abuse"
	ReportReasonNudity   = "nudity"
	ReportReasonViolence = "violence"
	ReportReasonOther    = "other"
)
