package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{1}.NumElements())
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	out, ok, err := BroadcastShapes(Shape{4, 3}, Shape{1, 3})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Shape{4, 3}, out)

	out, _, err = BroadcastShapes(Shape{4, 1}, Shape{3})
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 3}, out)

	_, _, err = BroadcastShapes(Shape{4, 3}, Shape{4, 2})
	assert.Error(t, err)
}

func TestFromDataValidatesLength(t *testing.T) {
	_, err := FromData([]float32{1, 2, 3}, Shape{2, 2})
	assert.Error(t, err)

	raw, err := FromData([]float32{1, 2, 3, 4}, Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, raw.NumElements())
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	raw, err := FromData([]float32{1, 2, 3, 4}, Shape{2, 2})
	require.NoError(t, err)

	clone := raw.Clone()
	clone.Data()[0] = 99
	assert.Equal(t, float32(1), raw.Data()[0])
}

func TestViewRejectsSizeMismatch(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3})
	require.NoError(t, err)

	view, err := raw.View(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, view.Shape())

	_, err = raw.View(Shape{4, 2})
	assert.Error(t, err)
}
