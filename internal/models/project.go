package models

import "time"

type Project struct {
	ID        int64
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Tasks is only populated by queries that explicitly load them.
	Tasks []*Task
}
