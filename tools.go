package pilight

// This module contains the editing tools applied to the base colors of a
// scene before it is rendered

import (
	"math"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

const (
	ToolSolid  = "solid"
	ToolSmooth = "smooth"
)

// Fill returns base colors that are all c
func Fill(colors model.Frame, c model.Color) (filled model.Frame) {
	filled = make(model.Frame, len(colors))
	for i := range filled {
		filled[i] = c
	}
	return filled
}

// ApplyTool blends c into the positions within radius of index.  The solid
// tool uses opacity throughout, the smooth tool fades it out linearly with
// distance from index.  opacity is in [0,1]
func ApplyTool(colors model.Frame, tool string, index int, radius int, opacity float64, c model.Color) (painted model.Frame, err errors.Error) {
	if tool != ToolSolid && tool != ToolSmooth {
		return nil, model.NewFault(model.InvalidParameters, errors.New("unknown tool").With("tool", tool).With("stack", stack.Trace().TrimRuntime()))
	}
	if radius < 0 || opacity < 0 || opacity > 1 {
		return nil, model.NewFault(model.InvalidParameters, errors.New("radius and opacity out of range").With("radius", radius).With("opacity", opacity).With("stack", stack.Trace().TrimRuntime()))
	}

	painted = colors.Clone()

	lo := max(0, index-radius)
	hi := min(len(painted), index+radius+1)
	for i := lo; i < hi; i++ {
		strength := opacity
		if tool == ToolSmooth && radius > 0 {
			strength = (1 - math.Abs(float64(index-i))/float64(radius)) * opacity
		}
		painted[i] = painted[i].Blend(c, strength)
	}
	return painted, nil
}
