package domain

import "time"

// Client is a machine identity authenticated from a TLS peer certificate's
// Common Name. AutomationAllowed gates access to the automation API
// specifically; Enabled gates authentication entirely.
type Client struct {
	ID                int64
	Name              string
	Enabled           bool
	AutomationAllowed bool
	LastSeen          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AutomationClient is the subset of Client permitted to call the automation
// API. Authenticator (C9) only hands one of these back on success.
type AutomationClient struct {
	ID   int64
	Name string
}
