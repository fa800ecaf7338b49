package slot

import "fmt"

// roleNotBoundError signals that a role has no model configured.
type roleNotBoundError struct{ role Role }

func (e roleNotBoundError) Error() string { return "role not bound: " + string(e.role) }

// ErrRoleNotBound returns an error for a role with no configured model.
func ErrRoleNotBound(role Role) error { return roleNotBoundError{role: role} }

// IsRoleNotBound reports whether err indicates an unconfigured role.
func IsRoleNotBound(err error) bool {
	_, ok := err.(roleNotBoundError)
	return ok
}

// loadError wraps a failure to load weights for a role. The slot's loaded
// flag is never mutated on this path.
type loadError struct {
	role Role
	err  error
}

func (e loadError) Error() string {
	return fmt.Sprintf("load %s model: %v", e.role, e.err)
}

func (e loadError) Unwrap() error { return e.err }

// ErrLoad wraps err as a weights-load failure for role.
func ErrLoad(role Role, err error) error { return loadError{role: role, err: err} }

// IsLoadError reports whether err is a weights-load failure, and for which
// role, so callers can name the failing role in user-visible messages.
func IsLoadError(err error) (Role, bool) {
	le, ok := err.(loadError)
	if !ok {
		return "", false
	}
	return le.role, true
}
