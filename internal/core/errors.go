package core

import "errors"

// ErrConfiguration marks a logic error in the caller, such as naming a column
// that is not filterable. These are rejected, never silently ignored.
var ErrConfiguration = errors.New("configuration error")

// ErrUnknownFilter is returned by ApplyFilter for a key that is not a
// filterable column of the current dataset.
var ErrUnknownFilter = errorf(ErrConfiguration, "unknown filter key")

// ErrUnknownColumn is returned by ComputeOptions for a target column that is
// not filterable.
var ErrUnknownColumn = errorf(ErrConfiguration, "unknown column")

// ErrSourceUnavailable marks a Data Source failure. The engine substitutes an
// empty Dataset and carries on.
var ErrSourceUnavailable = errors.New("dataset unavailable")

// ErrUnknownDataset is returned when a dataset identifier is not configured.
var ErrUnknownDataset = errors.New("unknown dataset")

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired IDs.
var ErrSessionNotFound = errors.New("session not found")

// wrappedSentinel is a sentinel that also matches its parent with errors.Is.
type wrappedSentinel struct {
	parent error
	msg    string
}

func errorf(parent error, msg string) error {
	return &wrappedSentinel{parent: parent, msg: msg}
}

func (e *wrappedSentinel) Error() string { return e.msg }

func (e *wrappedSentinel) Unwrap() error { return e.parent }
