package dto

import "time"

// NotificationDraft is what domain code hands to the notification writer;
// the writer fills in recipient, id and timestamps.
type NotificationDraft struct {
	Type    string                 `json:"type" validate:"required"`
	Title   string                 `json:"title" validate:"required,max=100"`
	Content string                 `json:"content" validate:"omitempty,max=1000"`
	Data    map[string]interface{} `json:"data"`
}

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type NotificationCriteria struct {
	UnreadOnly bool
	Type       string
	Page       int
	PageSize   int
}
