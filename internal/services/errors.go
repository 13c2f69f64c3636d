package services

import (
	"fmt"
	"strconv"
)

// NotFoundError reports a lookup by id or booking number that matched
// nothing. Handlers surface it as a 404, not a crash.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports bad input caught before any store mutation is
// attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// TransitionError reports a guest lifecycle action that is not legal
// from the record's current state, e.g. checking in a cancelled
// reservation.
type TransitionError struct {
	ID      int64
	From    string
	Action  string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s guest %d (status %s): %s", e.Action, e.ID, e.From, e.Message)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
