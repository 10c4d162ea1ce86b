package pilight

import (
	"sync/atomic"
	"testing"

	"github.com/karlmutch/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamNorCal/pilight/model"
)

// addRed is a test transform that is not commutative with Flash
type addRed struct{}

func (addRed) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	return base.Add(model.Color{R: 0.5})
}

// clock is a test transform that reports the time it was evaluated at
type clock struct {
	calls *atomic.Int64
}

func (c clock) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	c.calls.Add(1)
	return model.Color{R: t, G: float64(position)}
}

var clockCalls atomic.Int64

func init() {
	Register("test-addred", func(params model.Params) (Transform, errors.Error) {
		return addRed{}, nil
	})
	Register("test-clock", func(params model.Params) (Transform, errors.Error) {
		return clock{calls: &clockCalls}, nil
	})
}

func TestPipelineOrder(t *testing.T) {
	half := `{"length": 1, "start_value": 0.5, "end_value": 0.5}`
	base := []model.Color{model.Black}

	scaleFirst := NewPipeline([]model.TransformInstance{
		instance(t, "test-addred", 2, ""),
		instance(t, KindFlash, 1, half),
	})
	assertColor(t, model.Color{R: 0.5}, scaleFirst.Apply(0.3, 0, base))

	addFirst := NewPipeline([]model.TransformInstance{
		instance(t, KindFlash, 2, half),
		instance(t, "test-addred", 1, ""),
	})
	assertColor(t, model.Color{R: 0.25}, addFirst.Apply(0.3, 0, base))
}

func TestPipelineSkipsBadInstances(t *testing.T) {
	base := []model.Color{model.MustHex("336699"), model.MustHex("ff0000")}

	pipe := NewPipeline([]model.TransformInstance{
		instance(t, "sparkle", 1, `{"length": 1}`),
		instance(t, KindFlash, 2, `{"length": 0, "start_value": 0, "end_value": 1}`),
	})
	assert.Equal(t, 0, pipe.Len())
	require.Len(t, pipe.Skipped(), 2)
	assert.Equal(t, model.UnknownTransformKind, model.KindOf(pipe.Skipped()[0]))
	assert.Equal(t, model.InvalidParameters, model.KindOf(pipe.Skipped()[1]))

	for position := range base {
		assert.Equal(t, base[position], pipe.Apply(7.5, position, base))
	}

	// a bad instance leaves the good ones working
	pipe = NewPipeline([]model.TransformInstance{
		instance(t, "sparkle", 1, `{"length": 1}`),
		instance(t, "test-addred", 2, ""),
	})
	assert.Equal(t, 1, pipe.Len())
	assertColor(t, model.Color{R: 1.5}, pipe.Apply(0, 1, base))
}

func TestRenderFrameIsPure(t *testing.T) {
	base := model.Frame{model.MustHex("ff0000"), model.MustHex("00ff00"), model.MustHex("0000ff")}
	instances := []model.TransformInstance{instance(t, KindScroll, 1, `{"length": 3}`)}

	frame := RenderFrame(1, base, instances)
	assert.Equal(t, model.Frame{base[1], base[2], base[0]}, frame)
	assert.Equal(t, frame, RenderFrame(1, base, instances))
	assert.Equal(t, "ff0000", base[0].ToHex())
}

func TestSimulate(t *testing.T) {
	base := model.Frame{model.Black, model.Black}
	instances := []model.TransformInstance{instance(t, "test-clock", 1, "")}

	start := clockCalls.Load()
	frames := Simulate(0.25, 4, base, instances)

	// nothing is computed until the sequence is ranged over
	assert.Equal(t, start, clockCalls.Load())

	for frame := range frames {
		assert.Equal(t, model.Frame{{R: 0}, {G: 1}}, frame)
		break
	}
	assert.Equal(t, start+2, clockCalls.Load())

	times := []float64{}
	for frame := range frames {
		times = append(times, frame[0].R)
	}
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, times)

	// ranging again restarts from the first frame
	again := []float64{}
	for frame := range frames {
		again = append(again, frame[0].R)
	}
	assert.Equal(t, times, again)

	count := 0
	for range Simulate(0.1, 0, base, instances) {
		count++
	}
	assert.Zero(t, count)
}

func TestRendererCopiesBase(t *testing.T) {
	base := model.Frame{model.MustHex("ffffff")}
	r := NewRenderer(base, nil)
	base[0] = model.Black

	assert.Equal(t, 1, r.NumLEDs())
	assert.Equal(t, model.Frame{model.MustHex("ffffff")}, r.Frame(3))
}
