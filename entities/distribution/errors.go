package distribution

import (
	"errors"
	"fmt"
)

// MissingDependencyError reports that an operation requires a numerics
// provider which has not been configured on the variant. It is raised
// eagerly at the start of the operation, before any computation.
type MissingDependencyError struct {
	Operation  string
	Dependency string
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("operation %q requires %s, but none is configured",
		e.Operation, e.Dependency)
}

// NewMissingDependency builds a MissingDependencyError for the given
// operation.
func NewMissingDependency(operation, dependency string) error {
	return MissingDependencyError{Operation: operation, Dependency: dependency}
}

// IsMissingDependency reports whether err is (or wraps) a
// MissingDependencyError.
func IsMissingDependency(err error) bool {
	var target MissingDependencyError
	return errors.As(err, &target)
}
