package pilight

// This module contains the registry of transform kinds.  Each kind decodes
// the generic parameter mapping of an instance into its own typed parameters
// once, the resulting Transform is then evaluated for every pixel of every
// frame

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// Transform computes the color of one pixel at a point in time.  base is the
// running color produced by earlier transforms, all holds the base colors of
// every position on the strip
type Transform interface {
	Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color
}

// Decoder builds a Transform from the parameters of an instance
type Decoder func(params model.Params) (Transform, errors.Error)

const (
	KindFlash      = "flash"
	KindColorFlash = "colorflash"
	KindScroll     = "scroll"
	KindRotateHue  = "rotatehue"
)

var (
	registry = struct {
		decoders map[string]Decoder
		sync.RWMutex
	}{
		decoders: map[string]Decoder{},
	}
)

func init() {
	Register(KindFlash, decodeFlash)
	Register(KindColorFlash, decodeColorFlash)
	Register(KindScroll, decodeScroll)
	Register(KindRotateHue, decodeRotateHue)
}

// Register adds, or replaces, the decoder for a transform kind
func Register(kind string, decoder Decoder) {
	registry.Lock()
	defer registry.Unlock()
	registry.decoders[kind] = decoder
}

// Kinds lists the registered transform kind names
func Kinds() (kinds []string) {
	registry.RLock()
	defer registry.RUnlock()
	for kind := range registry.decoders {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Decode builds the Transform for an instance
func Decode(inst *model.TransformInstance) (tr Transform, err errors.Error) {
	registry.RLock()
	decoder, isPresent := registry.decoders[inst.Kind]
	registry.RUnlock()

	if !isPresent {
		return nil, model.NewFault(model.UnknownTransformKind, errors.New("unknown transform kind").With("kind", inst.Kind).With("stack", stack.Trace().TrimRuntime()))
	}
	return decoder(inst.Params)
}

// progress returns the position within the current cycle in [0,1), negative
// times count backwards from the start of a cycle
func progress(t float64, length float64) float64 {
	cycles := t / length
	return cycles - math.Floor(cycles)
}

// wave maps a cycle position onto a triangle, or cosine, wave rescaled to [0,1]
func wave(p float64, sine bool) float64 {
	if sine {
		p = math.Cos(p * 2 * math.Pi)
	} else {
		p = 1 - (2 * math.Abs(p*2-1))
	}
	return (p + 1) / 2
}

type Flash struct {
	Length     float64
	Sine       bool
	StartValue float64
	EndValue   float64
}

func (tr *Flash) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	p := wave(progress(t, tr.Length), tr.Sine)
	return base.Scale((1-p)*tr.StartValue + p*tr.EndValue)
}

type ColorFlash struct {
	Length     float64
	Sine       bool
	StartColor model.Color
	EndColor   model.Color
}

func (tr *ColorFlash) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	p := wave(progress(t, tr.Length), tr.Sine)
	return base.Multiply(tr.StartColor.Blend(tr.EndColor, p))
}

type Scroll struct {
	Length float64
	Blend  bool
}

func (tr *Scroll) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	if total <= 0 || len(all) < total {
		return base
	}
	p := progress(t, tr.Length)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return base
	}
	whole, frac := math.Modf(p * float64(total))
	source := (int(whole) + position) % total
	if frac == 0 || !tr.Blend {
		return all[source]
	}
	// the fractional offset weights the source pixel
	next := (source + 1) % total
	return all[source].Scale(frac).Add(all[next].Scale(1 - frac))
}

type RotateHue struct {
	Length float64
}

func (tr *RotateHue) Apply(t float64, position int, total int, base model.Color, all []model.Color) model.Color {
	h, s, v := base.ToHSV()
	return model.FromHSV(math.Mod(h+progress(t, tr.Length)*360, 360), s, v)
}

func invalidParam(name string, reason string, value interface{}) errors.Error {
	return model.NewFault(model.InvalidParameters, errors.New(reason).With("param", name).With("value", fmt.Sprint(value)).With("stack", stack.Trace().TrimRuntime()))
}

func floatParam(params model.Params, name string) (value float64, err errors.Error) {
	raw, isPresent := params[name]
	if !isPresent {
		return 0, invalidParam(name, "missing parameter", nil)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case interface{ Float64() (float64, error) }:
		f, errGo := v.Float64()
		if errGo != nil {
			return 0, invalidParam(name, "not a number", raw)
		}
		return f, nil
	}
	return 0, invalidParam(name, "not a number", raw)
}

func boolParam(params model.Params, name string) (value bool, err errors.Error) {
	raw, isPresent := params[name]
	if !isPresent || raw == nil {
		return false, nil
	}
	if v, isBool := raw.(bool); isBool {
		return v, nil
	}
	return false, invalidParam(name, "not a boolean", raw)
}

func colorParam(params model.Params, name string) (value model.Color, err errors.Error) {
	text, isString := params[name].(string)
	if !isString {
		return model.Black, invalidParam(name, "not a hex color", params[name])
	}
	if value, err = model.FromHex(text); err != nil {
		return model.Black, invalidParam(name, "not a hex color", text)
	}
	return value, nil
}

func lengthParam(params model.Params) (length float64, err errors.Error) {
	if length, err = floatParam(params, "length"); err != nil {
		return 0, err
	}
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return 0, invalidParam("length", "length must be positive", length)
	}
	return length, nil
}

func decodeFlash(params model.Params) (tr Transform, err errors.Error) {
	flash := &Flash{}
	if flash.Length, err = lengthParam(params); err != nil {
		return nil, err
	}
	if flash.Sine, err = boolParam(params, "sine"); err != nil {
		return nil, err
	}
	if flash.StartValue, err = floatParam(params, "start_value"); err != nil {
		return nil, err
	}
	if flash.EndValue, err = floatParam(params, "end_value"); err != nil {
		return nil, err
	}
	return flash, nil
}

func decodeColorFlash(params model.Params) (tr Transform, err errors.Error) {
	flash := &ColorFlash{}
	if flash.Length, err = lengthParam(params); err != nil {
		return nil, err
	}
	if flash.Sine, err = boolParam(params, "sine"); err != nil {
		return nil, err
	}
	if flash.StartColor, err = colorParam(params, "start_color"); err != nil {
		return nil, err
	}
	if flash.EndColor, err = colorParam(params, "end_color"); err != nil {
		return nil, err
	}
	return flash, nil
}

func decodeScroll(params model.Params) (tr Transform, err errors.Error) {
	scroll := &Scroll{}
	if scroll.Length, err = lengthParam(params); err != nil {
		return nil, err
	}
	if scroll.Blend, err = boolParam(params, "blend"); err != nil {
		return nil, err
	}
	return scroll, nil
}

func decodeRotateHue(params model.Params) (tr Transform, err errors.Error) {
	rotate := &RotateHue{}
	if rotate.Length, err = lengthParam(params); err != nil {
		return nil, err
	}
	return rotate, nil
}
