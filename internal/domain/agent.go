package domain

import "time"

// Agent is a staff identity able to own and respond to tickets.
type Agent struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	CanSupport   bool
	CreatedAt    time.Time
}
