package model

// This module defines the implementation neutral scene, the base colors and
// transforms that the driver renders

import (
	"encoding/json"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

type Scene struct {
	BaseColors []string            `json:"baseColors" yaml:"base_colors"`
	Transforms []TransformInstance `json:"transforms" yaml:"transforms"`
}

// DeepCopy deepcopies a scene using json marshaling
func (scene *Scene) DeepCopy() (cpy *Scene) {
	cpy = &Scene{}

	byt, _ := json.Marshal(scene)
	json.Unmarshal(byt, cpy)
	return cpy
}

// Colors decodes the base colors, padding with black or truncating to numLEDs
func (scene *Scene) Colors(numLEDs int) (colors Frame, err errors.Error) {
	colors = make(Frame, numLEDs)
	for i, text := range scene.BaseColors {
		if i >= numLEDs {
			break
		}
		if colors[i], err = FromHex(text); err != nil {
			return nil, err
		}
	}
	return colors, nil
}

// ParseScene decodes a JSON scene document
func ParseScene(body []byte) (scene *Scene, err errors.Error) {
	scene = &Scene{}
	if errGo := json.Unmarshal(body, scene); errGo != nil {
		return nil, errors.Wrap(errGo).With("body", string(body)).With("stack", stack.Trace().TrimRuntime())
	}
	return scene, nil
}
