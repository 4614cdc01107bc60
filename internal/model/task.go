package model

import "time"

// Status and priority are open strings; these are only the conventional values.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	NotionID    *string    `json:"notion_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Synced reports whether the task has been linked to a remote page.
func (t Task) Synced() bool {
	return t.NotionID != nil && *t.NotionID != ""
}

type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *Date      `json:"due_date"`
}

// TaskUpdate is a partial update: nil fields are left untouched.
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *Date      `json:"due_date"`
}

// Fields returns the column/value map of the provided fields.
func (u TaskUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Priority != nil {
		fields["priority"] = *u.Priority
	}
	if u.DueDate != nil {
		fields["due_date"] = u.DueDate.Time
	}
	return fields
}
