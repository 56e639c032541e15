// Package approval contains the pure, in-memory operations behind the
// approval route stage editor: add, remove, reorder and field updates over
// an ordered stage list, save-time validation, and the grouped route view.
//
// Every operation is copy-on-write — the input slice is never mutated, the
// caller owns re-assignment of the result. After any operation the list is
// dense: stages[i].OrderIndex == i for all i.
package approval

import "github.com/payhub/payhub-backend/internal/model"

// StageField identifies an editable stage attribute for UpdateStageField.
type StageField string

const (
	FieldName          StageField = "name"
	FieldRole          StageField = "role_id"
	FieldPaymentStatus StageField = "payment_status_id"
	FieldPermissions   StageField = "permissions"
)

// AddStage appends a blank stage: empty name, no role, no resulting payment
// status, empty permission set. Always succeeds.
func AddStage(stages []model.Stage) []model.Stage {
	out := cloneStages(stages)
	out = append(out, model.Stage{
		OrderIndex:  len(out),
		Permissions: model.PermissionSet{},
	})
	return out
}

// RemoveStage removes the stage at index and renumbers the remainder.
// An out-of-bounds index is a no-op — callers pass indices obtained from
// the list itself.
func RemoveStage(stages []model.Stage, index int) []model.Stage {
	if index < 0 || index >= len(stages) {
		return stages
	}
	out := make([]model.Stage, 0, len(stages)-1)
	for i, s := range stages {
		if i == index {
			continue
		}
		out = append(out, s)
	}
	return Renumber(out)
}

// ReorderStage moves the stage at from to position to, shifting the stages
// between them by one, and renumbers. Out-of-bounds indices are a no-op.
func ReorderStage(stages []model.Stage, from, to int) []model.Stage {
	if from < 0 || from >= len(stages) || to < 0 || to >= len(stages) {
		return stages
	}
	out := cloneStages(stages)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	rest := make([]model.Stage, 0, len(stages))
	rest = append(rest, out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	return Renumber(rest)
}

// UpdateStageField replaces a single field of the stage at index. The value
// type depends on the field:
//
//	FieldName          — string
//	FieldRole          — *int (nil clears)
//	FieldPaymentStatus — *int (nil clears)
//	FieldPermissions   — model.PermissionSet
//
// No reference validation happens here — a role or status ID pointing
// nowhere is caught at save time, so transient states never block typing.
// An out-of-bounds index or a value of the wrong type is a no-op.
func UpdateStageField(stages []model.Stage, index int, field StageField, value any) []model.Stage {
	if index < 0 || index >= len(stages) {
		return stages
	}
	out := cloneStages(stages)
	s := &out[index]

	switch field {
	case FieldName:
		if v, ok := value.(string); ok {
			s.Name = v
		}
	case FieldRole:
		if v, ok := asIntPtr(value); ok {
			s.RoleID = v
		}
	case FieldPaymentStatus:
		if v, ok := asIntPtr(value); ok {
			s.PaymentStatusID = v
		}
	case FieldPermissions:
		if v, ok := value.(model.PermissionSet); ok {
			s.Permissions = v.Clone()
		}
	}
	return out
}

// Renumber returns a copy with every stage's OrderIndex set to its array
// position. Applied by every editing operation and again just before
// persistence, so externally supplied order indexes are always overwritten.
func Renumber(stages []model.Stage) []model.Stage {
	out := cloneStages(stages)
	for i := range out {
		out[i].OrderIndex = i
	}
	return out
}

func cloneStages(stages []model.Stage) []model.Stage {
	out := make([]model.Stage, len(stages))
	copy(out, stages)
	return out
}

func asIntPtr(value any) (*int, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case *int:
		return v, true
	case int:
		return &v, true
	}
	return nil, false
}
