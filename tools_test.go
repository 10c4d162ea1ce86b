package pilight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamNorCal/pilight/model"
)

func TestFill(t *testing.T) {
	red := model.MustHex("ff0000")
	assert.Equal(t, model.Frame{red, red, red}, Fill(make(model.Frame, 3), red))
	assert.Empty(t, Fill(nil, red))
}

func TestApplyTool(t *testing.T) {
	white := model.MustHex("ffffff")
	black := make(model.Frame, 5)

	painted, err := ApplyTool(black, ToolSolid, 1, 1, 1, white)
	require.Nil(t, err)
	assert.Equal(t, model.Frame{white, white, white, model.Black, model.Black}, painted)
	assert.Equal(t, make(model.Frame, 5), black)

	painted, err = ApplyTool(black, ToolSmooth, 2, 2, 1, white)
	require.Nil(t, err)
	for i, level := range []float64{0, 0.5, 1, 0.5, 0} {
		assertColor(t, white.Scale(level), painted[i], "position %d", i)
	}

	painted, err = ApplyTool(black, ToolSolid, 4, 3, 0.25, white)
	require.Nil(t, err)
	assertColor(t, model.Black, painted[0])
	assertColor(t, white.Scale(0.25), painted[1])
	assertColor(t, white.Scale(0.25), painted[4])

	painted, err = ApplyTool(black, ToolSmooth, 0, 0, 1, white)
	require.Nil(t, err)
	assertColor(t, white, painted[0])
	assertColor(t, model.Black, painted[1])
}

func TestApplyToolRejects(t *testing.T) {
	white := model.MustHex("ffffff")
	for _, tc := range []struct {
		tool    string
		radius  int
		opacity float64
	}{
		{"spray", 1, 1},
		{ToolSolid, -1, 1},
		{ToolSmooth, 1, 1.5},
		{ToolSmooth, 1, -0.1},
	} {
		_, err := ApplyTool(make(model.Frame, 3), tc.tool, 1, tc.radius, tc.opacity, white)
		require.NotNil(t, err, tc.tool)
		assert.Equal(t, model.InvalidParameters, model.KindOf(err), tc.tool)
	}
}
