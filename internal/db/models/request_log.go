package models

// RequestLog stores one mutating admin API request for the activity view
type RequestLog struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Timestamp int64  `gorm:"index" json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Duration  int64  `json:"duration"` // milliseconds
	RecordID  uint   `gorm:"index" json:"record_id,omitempty"`
	Alias     string `gorm:"index" json:"alias,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RequestStats holds aggregated statistics for request logs
type RequestStats struct {
	TotalRequests int64 `json:"total_requests"`
	SuccessCount  int64 `json:"success_count"`
	ErrorCount    int64 `json:"error_count"`
}
