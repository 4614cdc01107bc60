package model

import "time"

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tasks       []string  `json:"tasks"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}
