package model

// This module defines the transform instance descriptor handed to the
// renderer by whatever loaded the configuration

import (
	"encoding/json"
	"sort"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

// Params is the decoded parameter mapping of a transform instance, values
// are numbers, booleans or strings
type Params map[string]interface{}

// TransformInstance is one configured, ordered application of a transform kind
type TransformInstance struct {
	Kind   string `json:"kind" yaml:"kind"`
	Order  int    `json:"order" yaml:"order"`
	Params Params `json:"params" yaml:"params"`

	serialized string
}

// NewTransformInstance decodes the JSON encoded parameters of a transform
func NewTransformInstance(kind string, order int, paramsJSON string) (inst *TransformInstance, err errors.Error) {
	params := Params{}
	if paramsJSON != "" {
		if errGo := json.Unmarshal([]byte(paramsJSON), &params); errGo != nil {
			return nil, NewFault(InvalidParameters, errors.Wrap(errGo).With("kind", kind).With("params", paramsJSON).With("stack", stack.Trace().TrimRuntime()))
		}
	}
	return &TransformInstance{
		Kind:       kind,
		Order:      order,
		Params:     params,
		serialized: paramsJSON,
	}, nil
}

// WithParams returns a new instance carrying params, re-serialized, the
// receiver is left untouched
func (inst *TransformInstance) WithParams(params Params) (updated *TransformInstance, err errors.Error) {
	byt, errGo := json.Marshal(params)
	if errGo != nil {
		return nil, NewFault(InvalidParameters, errors.Wrap(errGo).With("kind", inst.Kind).With("stack", stack.Trace().TrimRuntime()))
	}
	return NewTransformInstance(inst.Kind, inst.Order, string(byt))
}

// SerializedParams returns the JSON form of the parameter mapping
func (inst *TransformInstance) SerializedParams() string {
	if inst.serialized == "" {
		byt, _ := json.Marshal(inst.Params)
		return string(byt)
	}
	return inst.serialized
}

// SortByOrder returns a copy of instances ordered by ascending Order, ties
// keep their original relative position
func SortByOrder(instances []TransformInstance) (sorted []TransformInstance) {
	sorted = append([]TransformInstance(nil), instances...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
