package domain

import "time"

// Module is a top-level classification, e.g. a government department.
type Module struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Category is a sub-classification belonging to exactly one module.
type Category struct {
	ID        int64
	Title     string
	ModuleID  int64
	CreatedAt time.Time
}
