package models

import "time"

// Task types and statuses as reported by the backend.
const (
	TaskTypePersonal = "personal"
	TaskTypeTeam     = "team"
)

// Task is a task-board card.
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Priority       int        `json:"priority"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	MaxAcceptCount int        `json:"max_accept_count"`
	AcceptedCount  int        `json:"accepted_count"`
	PublisherID    int64      `json:"publisher_id"`
	PublisherName  string     `json:"publisher_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// TaskCreate is the payload for creating a task.
type TaskCreate struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Priority       int        `json:"priority"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	MaxAcceptCount int        `json:"max_accept_count"`
}

// TaskUpdate carries partial task fields; nil fields are left unchanged.
type TaskUpdate struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Type           *string    `json:"type,omitempty"`
	Priority       *int       `json:"priority,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	MaxAcceptCount *int       `json:"max_accept_count,omitempty"`
	Status         *string    `json:"status,omitempty"`
}
