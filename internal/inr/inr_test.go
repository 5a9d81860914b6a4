package inr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/config"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func testConfig(family Family) Config {
	return Config{
		Family:         family,
		InFeatures:     2,
		OutFeatures:    1,
		HiddenFeatures: 16,
		HiddenLayers:   2,
		Omega:          5,
		Scale:          5,
		Sidelength:     64,
	}
}

func TestParseFamily(t *testing.T) {
	for _, name := range []string{"wire", "siren", "gauss", "mfn", "relu", "posenc"} {
		f, err := ParseFamily(name)
		require.NoError(t, err)
		assert.Equal(t, Family(name), f)
	}
}

func TestParseFamilyUnknown(t *testing.T) {
	_, err := ParseFamily("tanh")
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsUnknownFamily(t *testing.T) {
	cfg := testConfig("nope")
	_, err := New(cfg, autodiff.New(cpu.New()))
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsBadDimensions(t *testing.T) {
	cfg := testConfig(Wire)
	cfg.HiddenFeatures = 0
	_, err := New(cfg, autodiff.New(cpu.New()))
	assert.Error(t, err)
}

func TestForwardShapesAllFamilies(t *testing.T) {
	backend := autodiff.New(cpu.New())
	coords, err := tensor.FromSlice([]float32{
		-1, -1,
		0, 0.5,
		1, 1,
	}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)

	for _, family := range Families() {
		model, err := New(testConfig(family), backend)
		require.NoError(t, err, family)

		out := model.Forward(coords)
		assert.Equal(t, tensor.Shape{3, 1}, out.Shape(), family)
		for _, v := range out.Data() {
			assert.False(t, math.IsNaN(float64(v)), family)
		}
		assert.Positive(t, model.NumParameters(), family)
	}
}

func TestSirenFirstLayerInitBound(t *testing.T) {
	cfg := testConfig(Siren)
	model, err := New(cfg, autodiff.New(cpu.New()))
	require.NoError(t, err)

	state := model.StateDict()
	first := state["0.weight"]
	require.NotNil(t, first)
	bound := 1 / float64(cfg.InFeatures)
	for _, v := range first.Data() {
		assert.LessOrEqual(t, math.Abs(float64(v)), bound)
	}
}

func TestSirenHiddenLayerInitBound(t *testing.T) {
	cfg := testConfig(Siren)
	model, err := New(cfg, autodiff.New(cpu.New()))
	require.NoError(t, err)

	hidden := model.StateDict()["2.weight"]
	require.NotNil(t, hidden)
	bound := math.Sqrt(6/float64(cfg.HiddenFeatures)) / float64(cfg.Omega)
	for _, v := range hidden.Data() {
		assert.LessOrEqual(t, math.Abs(float64(v)), bound+1e-7)
	}
}

func TestStateDictRoundTripAllFamilies(t *testing.T) {
	backend := autodiff.New(cpu.New())
	coords, err := tensor.FromSlice([]float32{0.25, -0.5}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	for _, family := range Families() {
		model, err := New(testConfig(family), backend)
		require.NoError(t, err, family)
		before := model.Forward(coords).Data()[0]

		saved := make(map[string]*tensor.RawTensor)
		for name, raw := range model.StateDict() {
			saved[name] = raw.Clone()
		}

		restored, err := New(testConfig(family), backend)
		require.NoError(t, err, family)
		require.NoError(t, restored.LoadStateDict(saved), family)

		after := restored.Forward(coords).Data()[0]
		assert.InDelta(t, before, after, 1e-6, family)
	}
}

func TestPosEncodingWidth(t *testing.T) {
	enc := newPosEncoding[Backend](2, 64)
	// floor(log2(64/4)) = 4 frequency levels.
	assert.Equal(t, 2*(1+2*4), enc.OutFeatures())
}

func TestPosEncodingValues(t *testing.T) {
	backend := autodiff.New(cpu.New())
	enc := newPosEncoding[Backend](1, 16)

	x, err := tensor.FromSlice([]float32{0.5}, tensor.Shape{1, 1}, backend)
	require.NoError(t, err)
	out := enc.Forward(x).Data()

	assert.Equal(t, float32(0.5), out[0])
	assert.InDelta(t, math.Sin(math.Pi*0.5), out[1], 1e-6)
	assert.InDelta(t, math.Cos(math.Pi*0.5), out[2], 1e-6)
}

func TestPosEncValidatesSidelength(t *testing.T) {
	cfg := testConfig(PosEnc)
	cfg.Sidelength = 2
	_, err := New(cfg, autodiff.New(cpu.New()))
	assert.Error(t, err)
}
