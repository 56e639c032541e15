package approval

import (
	"fmt"
	"strings"

	"github.com/payhub/payhub-backend/internal/model"
)

// MinNameLength is the minimum length of a route name after trimming.
const MinNameLength = 3

// ValidationError reports a local invariant violation detected before any
// persistence call is made. The edit buffer is untouched when one is
// returned, so the user can correct the named field and retry.
type ValidationError struct {
	Field string
	// StagePosition is the 1-based position of the offending stage for
	// user display, or 0 when the error is not stage-scoped.
	StagePosition int
	Message       string
}

func (e *ValidationError) Error() string {
	if e.StagePosition > 0 {
		return fmt.Sprintf("stage %d: %s", e.StagePosition, e.Message)
	}
	return e.Message
}

// ValidateStages checks the stage list ahead of a save. An empty list is
// valid — it means the route currently has no stages configured. Every
// stage must have a role; the first stage without one fails the whole save.
// Role and status IDs are not checked against the reference lists here —
// foreign keys in the store enforce that, avoiding stale-list false
// negatives.
func ValidateStages(stages []model.Stage) error {
	for i, s := range stages {
		if s.RoleID == nil {
			return &ValidationError{
				Field:         "role_id",
				StagePosition: i + 1,
				Message:       "role is required",
			}
		}
	}
	return nil
}

// ValidateRouteName trims the name and checks the minimum length,
// returning the trimmed value to persist.
func ValidateRouteName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < MinNameLength {
		return "", &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be at least %d characters", MinNameLength),
		}
	}
	return trimmed, nil
}
