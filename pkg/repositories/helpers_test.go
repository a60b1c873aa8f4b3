package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
)

func TestParseID(t *testing.T) {
	n, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "input %q", bad)
	}
}

func TestUpdateBuilder(t *testing.T) {
	var b updateBuilder
	assert.True(t, b.empty())

	b.set("name", "Press")
	b.set("efficiency", 90.0)
	query, args := b.build("machines", 7, true)

	assert.Equal(t, "UPDATE machines SET name = $1, efficiency = $2, updated_at = now() WHERE id = $3 RETURNING id", query)
	assert.Equal(t, []any{"Press", 90.0, int64(7)}, args)
}

func TestUpdateBuilder_WithoutUpdatedAt(t *testing.T) {
	var b updateBuilder
	b.set("result", "pass")
	query, args := b.build("quality_control", 3, false)

	assert.Equal(t, "UPDATE quality_control SET result = $1 WHERE id = $2 RETURNING id", query)
	assert.Len(t, args, 2)
}

func TestOptionalKey(t *testing.T) {
	key, err := optionalKey(nil)
	require.NoError(t, err)
	assert.Nil(t, key)

	empty := ""
	key, err = optionalKey(&empty)
	require.NoError(t, err)
	assert.Nil(t, key)

	id := "12"
	key, err = optionalKey(&id)
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, int64(12), *key)
}
