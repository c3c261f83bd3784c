package core

import "fmt"

// ValidationError reports malformed or missing required input. It is raised
// before any mutation is applied, so a failed call leaves state untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// InvalidInputError reports a negative quantity or manhour value submitted to
// progress recording.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %q: %v must not be negative", e.Field, e.Value)
}

// DuplicateCodeError reports a sibling-scope code collision in the catalog.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("code %q already exists at this level", e.Code)
}

// HasDependentsError blocks deletion of a catalog node that still owns
// children. Deletion never cascades silently.
type HasDependentsError struct {
	Kind       string
	Name       string
	Dependents int
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s %q still owns %d dependent node(s)", e.Kind, e.Name, e.Dependents)
}

// NotFoundError reports a reference to a nonexistent catalog node or task.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AlreadyBoundError reports an attempt to bind a catalog sub-task that is
// already bound to a task within the same project.
type AlreadyBoundError struct {
	ProjectID string
	SubTaskID string
}

func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("sub-task %q is already bound in project %q", e.SubTaskID, e.ProjectID)
}
