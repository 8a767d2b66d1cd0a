package goNexus

import "errors"

var (
	// ErrAuthenticationFailed is returned when a login names no known identity.
	// Views show it as "Authentication failed. Please try again."
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrSessionCommitFailed wraps a storage failure while persisting a new session.
	ErrSessionCommitFailed = errors.New("session commit failed")
	// ErrSessionClearFailed wraps a storage failure during logout.
	ErrSessionClearFailed = errors.New("session clear failed")
	// ErrNoSession is returned by operations that need an authenticated caller.
	ErrNoSession = errors.New("no active session")
	// ErrForbidden is returned when the caller's role lacks a capability.
	ErrForbidden = errors.New("forbidden")
	// ErrNotStarted is returned by operations that need [Engine.Start] to have run.
	ErrNotStarted = errors.New("engine not started")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrBuilderUsed is returned by a second call to [Builder.Build].
	ErrBuilderUsed = errors.New("builder already used")
	// ErrEngineNotReady is returned by Build when a dependency cannot be opened.
	ErrEngineNotReady = errors.New("engine dependencies not ready")
)
