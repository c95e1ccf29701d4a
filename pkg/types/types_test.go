package types_test

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The created-items manifest is the only contract between a materialization
// run and a later undo invocation, so its wire shape is pinned here.
func TestCreatedItemManifestShape(t *testing.T) {
	items := []types.CreatedItem{
		{Path: "/out/app", ItemType: types.ItemFolder, PreExisted: false},
		{Path: "/out/app/main.go", ItemType: types.ItemFile, PreExisted: true},
	}

	data, err := json.Marshal(items)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"path":"/out/app","item_type":"folder","pre_existed":false},
		{"path":"/out/app/main.go","item_type":"file","pre_existed":true}
	]`, string(data))

	var back []types.CreatedItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, items, back)
}

func TestHookResultOmitsAbsentExitCode(t *testing.T) {
	data, err := json.Marshal(types.HookResult{Command: "make init", Success: false})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "exit_code")

	code := 2
	data, err = json.Marshal(types.HookResult{Command: "make init", Success: false, ExitCode: &code})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exit_code":2`)
}

func TestDiffActionValues(t *testing.T) {
	assert.Equal(t, types.DiffAction("create"), types.DiffCreate)
	assert.Equal(t, types.DiffAction("overwrite"), types.DiffOverwrite)
	assert.Equal(t, types.DiffAction("skip"), types.DiffSkip)
	assert.Equal(t, types.DiffAction("unchanged"), types.DiffUnchanged)
}
