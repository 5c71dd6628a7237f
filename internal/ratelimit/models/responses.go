package models

type RateLimitExceededResponse struct {
	Error      string  `json:"error"` // "rate_limit_exceeded"
	Message    string  `json:"message"`
	Reason     Outcome `json:"reason"`
	Limit      int     `json:"limit,omitempty"`
	RetryAfter int     `json:"retry_after"` // seconds
}

type AdminActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
