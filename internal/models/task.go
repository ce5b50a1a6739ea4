package models

import "time"

const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Statuses lists every valid task status in display order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusCompleted}

type Task struct {
	ID          int64
	ProjectID   int64
	AssignedTo  string
	Title       string
	Description string
	Status      string
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
