package approval

import (
	"testing"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func stageList(names ...string) []model.Stage {
	stages := make([]model.Stage, len(names))
	for i, n := range names {
		stages[i] = model.Stage{
			ID:          intPtr(100 + i),
			OrderIndex:  i,
			Name:        n,
			RoleID:      intPtr(i + 1),
			Permissions: model.PermissionSet{},
		}
	}
	return stages
}

func assertDenseOrder(t *testing.T, stages []model.Stage) {
	t.Helper()
	for i, s := range stages {
		assert.Equal(t, i, s.OrderIndex, "stage %q at position %d", s.Name, i)
	}
}

func TestAddStage(t *testing.T) {
	stages := stageList("Manager approval", "Finance approval")

	out := AddStage(stages)

	require.Len(t, out, 3)
	added := out[2]
	assert.Equal(t, 2, added.OrderIndex)
	assert.Empty(t, added.Name)
	assert.Nil(t, added.RoleID)
	assert.Nil(t, added.PaymentStatusID)
	assert.NotNil(t, added.Permissions)
	assert.Empty(t, added.Permissions)
	assertDenseOrder(t, out)

	// Input list untouched.
	assert.Len(t, stages, 2)
}

func TestAddStageToEmptyList(t *testing.T) {
	out := AddStage(nil)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].OrderIndex)
}

func TestRemoveStageRenumbers(t *testing.T) {
	stages := stageList("A", "B", "C")

	out := RemoveStage(stages, 1)

	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "C", out[1].Name)
	assertDenseOrder(t, out)
}

func TestRemoveStageOutOfBoundsIsNoop(t *testing.T) {
	stages := stageList("A", "B")

	assert.Equal(t, stages, RemoveStage(stages, -1))
	assert.Equal(t, stages, RemoveStage(stages, 2))
	assert.Equal(t, stages, RemoveStage(stages, 99))
}

func TestReorderStageForward(t *testing.T) {
	stages := stageList("A", "B", "C", "D")

	out := ReorderStage(stages, 0, 2)

	require.Len(t, out, 4)
	names := []string{out[0].Name, out[1].Name, out[2].Name, out[3].Name}
	assert.Equal(t, []string{"B", "C", "A", "D"}, names)
	assertDenseOrder(t, out)
}

func TestReorderStageBackward(t *testing.T) {
	stages := stageList("A", "B", "C", "D")

	out := ReorderStage(stages, 3, 1)

	names := []string{out[0].Name, out[1].Name, out[2].Name, out[3].Name}
	assert.Equal(t, []string{"A", "D", "B", "C"}, names)
	assertDenseOrder(t, out)
}

func TestReorderStageToEnd(t *testing.T) {
	stages := stageList("A", "B", "C")

	out := ReorderStage(stages, 0, 2)

	names := []string{out[0].Name, out[1].Name, out[2].Name}
	assert.Equal(t, []string{"B", "C", "A"}, names)
	assertDenseOrder(t, out)
}

func TestReorderStageOutOfBoundsIsNoop(t *testing.T) {
	stages := stageList("A", "B")

	assert.Equal(t, stages, ReorderStage(stages, -1, 0))
	assert.Equal(t, stages, ReorderStage(stages, 0, 2))
	assert.Equal(t, stages, ReorderStage(stages, 5, 1))
}

func TestReorderStageDoesNotMutateInput(t *testing.T) {
	stages := stageList("A", "B", "C")

	_ = ReorderStage(stages, 0, 2)

	assert.Equal(t, "A", stages[0].Name)
	assert.Equal(t, "B", stages[1].Name)
	assert.Equal(t, "C", stages[2].Name)
	assertDenseOrder(t, stages)
}

func TestUpdateStageFieldName(t *testing.T) {
	stages := stageList("A", "B")

	out := UpdateStageField(stages, 1, FieldName, "Director approval")

	assert.Equal(t, "Director approval", out[1].Name)
	assert.Equal(t, "B", stages[1].Name)
}

func TestUpdateStageFieldRole(t *testing.T) {
	stages := stageList("A")

	out := UpdateStageField(stages, 0, FieldRole, 9)
	require.NotNil(t, out[0].RoleID)
	assert.Equal(t, 9, *out[0].RoleID)

	// nil clears.
	out = UpdateStageField(out, 0, FieldRole, nil)
	assert.Nil(t, out[0].RoleID)
}

func TestUpdateStageFieldPaymentStatus(t *testing.T) {
	stages := stageList("A")

	out := UpdateStageField(stages, 0, FieldPaymentStatus, intPtr(4))
	require.NotNil(t, out[0].PaymentStatusID)
	assert.Equal(t, 4, *out[0].PaymentStatusID)
}

func TestUpdateStageFieldPermissions(t *testing.T) {
	stages := stageList("A")
	perms := model.PermissionSet{model.StagePermEditAmount: true}

	out := UpdateStageField(stages, 0, FieldPermissions, perms)

	assert.True(t, out[0].Permissions.Enabled(model.StagePermEditAmount))

	// The stage holds its own copy.
	perms[model.StagePermEditAmount] = false
	assert.True(t, out[0].Permissions.Enabled(model.StagePermEditAmount))
}

func TestUpdateStageFieldOutOfBoundsIsNoop(t *testing.T) {
	stages := stageList("A")

	assert.Equal(t, stages, UpdateStageField(stages, 3, FieldName, "X"))
	assert.Equal(t, stages, UpdateStageField(stages, -1, FieldName, "X"))
}

func TestUpdateStageFieldWrongTypeIsNoop(t *testing.T) {
	stages := stageList("A")

	out := UpdateStageField(stages, 0, FieldName, 42)
	assert.Equal(t, "A", out[0].Name)
}

func TestRenumberOverwritesExternalIndexes(t *testing.T) {
	stages := stageList("A", "B", "C")
	stages[0].OrderIndex = 7
	stages[2].OrderIndex = -3

	out := Renumber(stages)

	assertDenseOrder(t, out)
}

// Mirrors the full editor session: two configured stages, a blank stage is
// added, the save is rejected until the new stage gets a role.
func TestEditorSessionScenario(t *testing.T) {
	stages := []model.Stage{
		{OrderIndex: 0, Name: "Manager approval", RoleID: intPtr(2), Permissions: model.PermissionSet{}},
		{OrderIndex: 1, Name: "Finance approval", RoleID: intPtr(7), Permissions: model.PermissionSet{}},
	}

	stages = AddStage(stages)
	require.Len(t, stages, 3)
	assert.Equal(t, 2, stages[2].OrderIndex)
	assert.Nil(t, stages[2].RoleID)

	err := ValidateStages(stages)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.StagePosition)
	assert.Contains(t, err.Error(), "stage 3")

	stages = UpdateStageField(stages, 2, FieldRole, 9)
	require.NoError(t, ValidateStages(stages))

	stages = Renumber(stages)
	assertDenseOrder(t, stages)
}
