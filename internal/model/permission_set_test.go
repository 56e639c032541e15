package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSetAbsentKeyIsFalse(t *testing.T) {
	var nilSet PermissionSet
	assert.False(t, nilSet.Enabled(StagePermEditInvoice))

	empty := PermissionSet{}
	assert.False(t, empty.Enabled(StagePermAddFiles))
}

func TestPermissionSetWithDoesNotMutateReceiver(t *testing.T) {
	base := PermissionSet{StagePermEditInvoice: true}

	updated := base.With(StagePermEditAmount, true)

	assert.True(t, updated.Enabled(StagePermEditInvoice))
	assert.True(t, updated.Enabled(StagePermEditAmount))
	assert.False(t, base.Enabled(StagePermEditAmount))
}

func TestPermissionSetUnknownKeysRoundTrip(t *testing.T) {
	raw := []byte(`{"can_edit_invoice":true,"can_future_thing":true}`)

	var set PermissionSet
	require.NoError(t, json.Unmarshal(raw, &set))

	// Touch other keys a few times; the unknown key must survive.
	set = set.With(StagePermAddFiles, true)
	set = set.With(StagePermEditInvoice, false)
	set = set.With(StagePermAddFiles, false)

	assert.True(t, set.Enabled("can_future_thing"))

	out, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded map[string]bool
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.True(t, decoded["can_future_thing"])
}

func TestPermissionSetCloneOfNil(t *testing.T) {
	var nilSet PermissionSet

	clone := nilSet.Clone()

	require.NotNil(t, clone)
	clone["x"] = true
	assert.False(t, nilSet.Enabled("x"))
}
