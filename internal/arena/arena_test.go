package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAndAt(t *testing.T) {
	a := New[int](4, 0)

	id0, slot0, err := a.Alloc()
	require.NoError(t, err)
	*slot0 = 42
	assert.Equal(t, ID(0), id0)

	id1, err := a.AllocValue(7)
	require.NoError(t, err)
	assert.Equal(t, ID(1), id1)

	assert.Equal(t, 42, *a.At(id0))
	assert.Equal(t, 7, *a.At(id1))
	assert.Equal(t, 2, a.Len())
}

func TestArena_AtOutOfRange(t *testing.T) {
	a := New[int](0, 0)
	assert.Nil(t, a.At(Invalid))
	assert.Nil(t, a.At(ID(5)))
	assert.False(t, a.Valid(ID(5)))
}

func TestArena_CapacityExceeded(t *testing.T) {
	a := New[int](0, 1)

	_, err := a.AllocValue(1)
	require.NoError(t, err)

	_, err = a.AllocValue(2)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestArena_CheckpointRollback(t *testing.T) {
	a := New[int](0, 0)

	_, _ = a.AllocValue(1)
	cp := a.Checkpoint()
	idB, _ := a.AllocValue(2)
	idC, _ := a.AllocValue(3)
	require.True(t, a.Valid(idB))
	require.True(t, a.Valid(idC))

	require.NoError(t, a.Rollback(cp))

	assert.Equal(t, 1, a.Len())
	assert.False(t, a.Valid(idB))
	assert.False(t, a.Valid(idC))

	// Re-allocating after rollback reuses the freed slots.
	idB2, _ := a.AllocValue(99)
	assert.Equal(t, idB, idB2)
	assert.Equal(t, 99, *a.At(idB2))
}

func TestArena_RollbackInvalidCheckpoint(t *testing.T) {
	a := New[int](0, 0)
	_, _ = a.AllocValue(1)
	cp := a.Checkpoint()
	require.NoError(t, a.Rollback(cp))

	stale := Checkpoint{offset: 99}
	assert.True(t, errors.Is(a.Rollback(stale), ErrInvalidCheckpoint))
}

func TestArena_Reset(t *testing.T) {
	a := New[int](0, 0)
	_, _ = a.AllocValue(1)
	_, _ = a.AllocValue(2)
	a.Reset()
	assert.Equal(t, 0, a.Len())
}
