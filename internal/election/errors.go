package election

import "errors"

var (
	// ErrSubmissionPending is returned while a write is in flight
	ErrSubmissionPending = errors.New("a transaction is already pending")

	// ErrElectionEnded is returned when ending an election that already ended
	ErrElectionEnded = errors.New("election has already ended")

	// ErrAlreadyMounted is returned by a second Mount
	ErrAlreadyMounted = errors.New("controller is already mounted")

	// ErrInvalidDraft is returned when draft validation is enabled and fails
	ErrInvalidDraft = errors.New("invalid state result")
)
