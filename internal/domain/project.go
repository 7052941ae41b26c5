package domain

import "time"

// Project is a git working tree discovered under a configured root.
type Project struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

// UsageTimestampFormat is the layout of the usage log's time column.
const UsageTimestampFormat = "2006-01-02 15:04:05"
