// Package chat declares the error taxonomy for hub operations. None of
// these errors are fatal; the transport layer reports them back to the
// originating connection and keeps serving.
package chat

import "fmt"

var (
	// ErrInvalidRoom reports a join or message that targets a room outside
	// the configured set.
	ErrInvalidRoom = fmt.Errorf("invalid room")

	// ErrNoTarget reports a private message without a target display name.
	ErrNoTarget = fmt.Errorf("no target user specified")

	// ErrTargetNotFound reports a private message whose target display name
	// matched no connected participant.
	ErrTargetNotFound = fmt.Errorf("target user not found")

	// ErrUnknownConnection reports an operation referencing a connection
	// that is not (or no longer) registered. Callers log and continue; a
	// closing connection may race its own in-flight events.
	ErrUnknownConnection = fmt.Errorf("unknown connection")
)

// TargetNotFoundError carries the unmatched display name so the sender can
// be told which target failed. It matches ErrTargetNotFound under errors.Is.
type TargetNotFoundError struct {
	Target string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target user %q not found", e.Target)
}

func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}
