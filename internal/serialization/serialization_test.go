package serialization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

func testStateDict(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()
	w, err := tensor.FromData([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	b, err := tensor.FromData([]float32{-1, 0.5}, tensor.Shape{2})
	require.NoError(t, err)
	return map[string]*tensor.RawTensor{"0.weight": w, "0.bias": b}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ffck")
	state := testStateDict(t)

	require.NoError(t, Save(path, "wire", state, map[string]string{"task": "denoising"}))

	header, loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, header.FormatVersion)
	assert.Equal(t, "wire", header.Family)
	assert.Equal(t, "denoising", header.Metadata["task"])

	require.Len(t, loaded, 2)
	assert.Equal(t, state["0.weight"].Data(), loaded["0.weight"].Data())
	assert.Equal(t, tensor.Shape{2, 3}, loaded["0.weight"].Shape())
	assert.Equal(t, state["0.bias"].Data(), loaded["0.bias"].Data())
}

func TestTensorsPackedInSortedOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ffck")
	require.NoError(t, Save(path, "wire", testStateDict(t), nil))

	header, _, err := Load(path)
	require.NoError(t, err)

	require.Len(t, header.Tensors, 2)
	assert.Equal(t, "0.bias", header.Tensors[0].Name)
	assert.Equal(t, "0.weight", header.Tensors[1].Name)
	assert.Equal(t, int64(0), header.Tensors[0].Offset)
	assert.Equal(t, int64(8), header.Tensors[1].Offset)
}

func TestLoadRejectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ffck")
	require.NoError(t, Save(path, "wire", testStateDict(t), nil))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	blob[len(blob)/2] ^= 0xff
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	_, _, err = Load(path)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ffck")
	require.NoError(t, Save(path, "wire", testStateDict(t), nil))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	copy(blob[:4], "NOPE")
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	_, _, err = Load(path)
	// Flipping the magic also breaks the checksum, which is validated
	// first.
	assert.Error(t, err)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.ffck")
	require.NoError(t, os.WriteFile(path, []byte("FFCK"), 0o644))

	_, _, err := Load(path)
	assert.ErrorIs(t, err, ErrTruncated)
}
