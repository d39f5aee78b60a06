package suspense

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type keyTestVars struct {
	ID   string `json:"id"`
	Page int    `json:"page"`
}

func TestNewKey_DeepEquality(t *testing.T) {
	t.Parallel()

	k1, err := NewKey("GetUser", map[string]any{"id": "1", "page": 2})
	require.NoError(t, err)

	// Fresh object, same contents, different field order.
	k2, err := NewKey("GetUser", map[string]any{"page": 2, "id": "1"})
	require.NoError(t, err)

	require.Equal(t, k1, k2)

	// A struct with the same JSON shape agrees with the map.
	k3, err := NewKey("GetUser", keyTestVars{ID: "1", Page: 2})
	require.NoError(t, err)
	require.Equal(t, k1, k3)
}

func TestNewKey_Distinct(t *testing.T) {
	t.Parallel()

	k1 := MustKey("GetUser", map[string]any{"id": "1"})
	k2 := MustKey("GetUser", map[string]any{"id": "2"})
	require.NotEqual(t, k1, k2)

	// Same variables, different query.
	k3 := MustKey("GetAccount", map[string]any{"id": "1"})
	require.NotEqual(t, k1, k3)

	// No variables vs explicit null vs empty object are all distinct requests.
	kNone := MustKey("GetUser", nil)
	kEmpty := MustKey("GetUser", map[string]any{})
	require.NotEqual(t, kNone, kEmpty)
	require.NotEqual(t, k1, kNone)
}

func TestNewKey_Accessors(t *testing.T) {
	t.Parallel()

	k := MustKey("GetUser", map[string]any{"id": "1"})
	require.Equal(t, "GetUser", k.Query())
	require.NotEmpty(t, k.String())
	require.False(t, k.IsZero())

	var zero Key
	require.True(t, zero.IsZero())
}

func TestNewKey_Unserializable(t *testing.T) {
	t.Parallel()

	_, err := NewKey("Q", map[string]any{"ch": make(chan int)})
	require.Error(t, err)

	require.Panics(t, func() {
		MustKey("Q", map[string]any{"ch": make(chan int)})
	})
}
