package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainOf(targets ...int) []Migration {
	var chain []Migration
	for _, t := range targets {
		t := t
		chain = append(chain, Migration{
			TargetVersion: t,
			Transform: func(blob map[string]any) map[string]any {
				blob["applied"] = append(asInts(blob["applied"]), t)
				return blob
			},
		})
	}
	return chain
}

func asInts(v any) []int {
	if s, ok := v.([]int); ok {
		return s
	}
	return nil
}

func TestApplyUpgradesToLatest(t *testing.T) {
	chain := chainOf(1, 2, 3)

	blob, migrated := Apply(map[string]any{}, chain)

	require.True(t, migrated)
	assert.Equal(t, 3, Version(blob))
	assert.Equal(t, []int{1, 2, 3}, blob["applied"])
}

func TestApplyStartsFromCurrentVersion(t *testing.T) {
	chain := chainOf(1, 2, 3)

	// float64 is what encoding/json hands back for numbers.
	blob, migrated := Apply(map[string]any{"schemaVersion": float64(2)}, chain)

	require.True(t, migrated)
	assert.Equal(t, 3, Version(blob))
	assert.Equal(t, []int{3}, blob["applied"])
}

func TestApplyNoopAtLatest(t *testing.T) {
	chain := chainOf(1, 2)

	blob, migrated := Apply(map[string]any{"schemaVersion": 2, "keep": "me"}, chain)

	assert.False(t, migrated)
	assert.Equal(t, 2, Version(blob))
	assert.Equal(t, "me", blob["keep"])
	assert.Nil(t, blob["applied"])
}

func TestApplyToleratesGap(t *testing.T) {
	// No migration targeting version 2: the counter must advance past
	// the hole and still reach the latest version.
	chain := chainOf(1, 3)

	blob, migrated := Apply(map[string]any{}, chain)

	require.True(t, migrated)
	assert.Equal(t, 3, Version(blob))
	assert.Equal(t, []int{1, 3}, blob["applied"])
}

func TestApplyNilBlob(t *testing.T) {
	blob, migrated := Apply(nil, chainOf(1))

	require.True(t, migrated)
	assert.Equal(t, 1, Version(blob))
}

func TestApplyEmptyChain(t *testing.T) {
	blob, migrated := Apply(map[string]any{"schemaVersion": 5}, nil)

	assert.False(t, migrated)
	assert.Equal(t, 5, Version(blob))
}
