package actionbus

import "fmt"

// actionNotFoundError reports that ExecuteAsync was asked to dispatch an
// unregistered action name. Synchronous Execute never returns a Go error
// for this case (it returns a NOT_FOUND envelope instead, per spec §7's
// propagation policy); ExecuteAsync does, because the step executor must
// decide not to register a handle at all rather than register one that
// will never become ready.
type actionNotFoundError struct {
	name string
}

func (e *actionNotFoundError) Error() string {
	return fmt.Sprintf("actionbus: action not registered: %s", e.name)
}

// ErrActionNotFound constructs the error ExecuteAsync returns for an
// unregistered action name.
func ErrActionNotFound(name string) error {
	return &actionNotFoundError{name: name}
}
