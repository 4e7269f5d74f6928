package domain

import "time"

// Operator is the single account allowed through the login gate.
type Operator struct {
	Username string
}

// Token represents issued authentication token metadata.
type Token struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
