package approval

import (
	"testing"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStagesEmptyListIsValid(t *testing.T) {
	assert.NoError(t, ValidateStages(nil))
	assert.NoError(t, ValidateStages([]model.Stage{}))
}

func TestValidateStagesMissingRole(t *testing.T) {
	stages := []model.Stage{
		{OrderIndex: 0, Name: "Manager approval", RoleID: intPtr(2)},
		{OrderIndex: 1, Name: "Finance approval"},
	}

	err := ValidateStages(stages)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role_id", verr.Field)
	assert.Equal(t, 2, verr.StagePosition)
	assert.Equal(t, "stage 2: role is required", err.Error())
}

func TestValidateStagesFirstOffenderWins(t *testing.T) {
	stages := []model.Stage{
		{OrderIndex: 0, Name: "A"},
		{OrderIndex: 1, Name: "B"},
	}

	var verr *ValidationError
	require.ErrorAs(t, ValidateStages(stages), &verr)
	assert.Equal(t, 1, verr.StagePosition)
}

func TestValidateRouteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "Approvals", "Approvals", false},
		{"trimmed", "  Approvals  ", "Approvals", false},
		{"exactly min length", "abc", "abc", false},
		{"too short after trim", "  Hi  ", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRouteName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "name", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
