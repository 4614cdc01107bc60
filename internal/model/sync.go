package model

import "time"

const (
	SyncNotConfigured = "not_configured"
	SyncNeedsSync     = "needs_sync"
	SyncSynced        = "synced"
	SyncReady         = "ready"
)

// RemotePage is a page of the Notion database parsed into task fields.
type RemotePage struct {
	NotionID    string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

type SyncResult struct {
	Status           string    `json:"status"`
	SyncedFromRemote int       `json:"synced_from_remote"`
	SyncedToRemote   int       `json:"synced_to_remote"`
	Errors           []string  `json:"errors,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type SyncStats struct {
	TotalTasks  int `json:"total_tasks"`
	SyncedTasks int `json:"synced_tasks"`
}

type SyncStatus struct {
	LastSync    *time.Time `json:"last_sync"`
	TotalTasks  int        `json:"total_tasks"`
	SyncedTasks int        `json:"synced_tasks"`
	Status      string     `json:"status"`
}
