package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarValue_UnmarshalJSON(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`"active"`), &s))
		assert.Equal(t, "active", s.Value())
	})

	t.Run("integer stays integral", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`42`), &s))
		assert.Equal(t, int64(42), s.Value())
	})

	t.Run("float", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`3.5`), &s))
		assert.Equal(t, 3.5, s.Value())
	})

	t.Run("scientific notation is a float", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`1e3`), &s))
		assert.Equal(t, 1000.0, s.Value())
	})

	t.Run("bool", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`true`), &s))
		assert.Equal(t, true, s.Value())
	})

	t.Run("Any literal is a plain string", func(t *testing.T) {
		var s ScalarValue
		require.NoError(t, json.Unmarshal([]byte(`"Any"`), &s))
		assert.Equal(t, "Any", s.Value())
	})

	t.Run("null rejected", func(t *testing.T) {
		var s ScalarValue
		assert.Error(t, json.Unmarshal([]byte(`null`), &s))
	})

	t.Run("object rejected", func(t *testing.T) {
		var s ScalarValue
		assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &s))
	})

	t.Run("array rejected", func(t *testing.T) {
		var s ScalarValue
		assert.Error(t, json.Unmarshal([]byte(`[1]`), &s))
	})
}

func TestScalarValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewScalarValue(int64(7)))
	require.NoError(t, err)
	assert.Equal(t, `7`, string(out))

	out, err = json.Marshal(NewScalarValue("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))
}

func TestValidationTags_Closed(t *testing.T) {
	// Every decoder entry must agree with its variant's tag.
	for tag, decode := range validationDecoders {
		item := decode(rawObject{}, "p", &Issues{})
		require.NotNil(t, item)
		assert.Equal(t, tag, item.ValidationTag())
	}
	assert.Len(t, validationDecoders, 15)
}
