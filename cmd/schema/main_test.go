package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	data, err := generate()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "Config")
	assert.Contains(t, defs, "NotifyConfig")
	assert.Contains(t, string(data), `"emergency_override"`)
}
