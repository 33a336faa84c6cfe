package server

import "errors"

var (
	// ErrAlreadyRunning is returned when a transport is started twice.
	ErrAlreadyRunning = errors.New("server is already running")
	// ErrToolNotFound is returned by CallTool for an unregistered name.
	ErrToolNotFound = errors.New("tool not found")
)
