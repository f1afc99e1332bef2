package models

import "time"

// Attendance statuses as reported by the backend.
const (
	AttendancePending   = "pending"
	AttendanceConfirmed = "confirmed"
	AttendanceAbsent    = "absent"
)

// Meeting is a calendar entry.
type Meeting struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Type             string     `json:"type"`
	MeetingDate      time.Time  `json:"meeting_date"`
	Duration         int        `json:"duration"`
	IsRecurring      bool       `json:"is_recurring"`
	RecurringPattern string     `json:"recurring_pattern,omitempty"`
	CreatedByID      int64      `json:"created_by_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// MeetingCreate is the payload for creating a meeting. Duration is minutes.
type MeetingCreate struct {
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Type             string    `json:"type"`
	MeetingDate      time.Time `json:"meeting_date"`
	Duration         int       `json:"duration"`
	IsRecurring      bool      `json:"is_recurring"`
	RecurringPattern string    `json:"recurring_pattern,omitempty"`
}

// MeetingUpdate carries partial meeting fields; nil fields are left unchanged.
type MeetingUpdate struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Type             *string    `json:"type,omitempty"`
	MeetingDate      *time.Time `json:"meeting_date,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	IsRecurring      *bool      `json:"is_recurring,omitempty"`
	RecurringPattern *string    `json:"recurring_pattern,omitempty"`
}

// Attendance is one user's attendance record for a meeting.
type Attendance struct {
	ID           int64      `json:"id"`
	MeetingID    int64      `json:"meeting_id"`
	UserID       int64      `json:"user_id"`
	UserName     string     `json:"user_name,omitempty"`
	UserAvatar   *string    `json:"user_avatar,omitempty"`
	InstanceDate *time.Time `json:"instance_date,omitempty"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AttendanceUpdate sets the caller's attendance status for a meeting.
type AttendanceUpdate struct {
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	InstanceDate *time.Time `json:"instance_date,omitempty"`
}
