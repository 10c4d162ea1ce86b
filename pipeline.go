package pilight

// This module composes the transform instances of a scene into a pipeline.
// Instances that cannot be decoded are dropped from the pipeline and logged,
// a single bad instance never blanks the strip

import (
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

type stage struct {
	kind  string
	order int
	tr    Transform
}

// Pipeline is an ordered, immutable set of decoded transforms
type Pipeline struct {
	stages  []stage
	skipped []errors.Error
}

// NewPipeline sorts instances by ascending order and decodes each of them
func NewPipeline(instances []model.TransformInstance) (pipe *Pipeline) {
	pipe = &Pipeline{
		stages: make([]stage, 0, len(instances)),
	}
	for _, inst := range model.SortByOrder(instances) {
		tr, err := Decode(&inst)
		if err != nil {
			logger.Warn("transform skipped", "kind", inst.Kind, "order", inst.Order, "error", err.Error())
			pipe.skipped = append(pipe.skipped, err)
			continue
		}
		pipe.stages = append(pipe.stages, stage{kind: inst.Kind, order: inst.Order, tr: tr})
	}
	return pipe
}

// Len is the number of transforms that will be applied
func (pipe *Pipeline) Len() int {
	return len(pipe.stages)
}

// Skipped returns the errors for the instances left out of the pipeline
func (pipe *Pipeline) Skipped() []errors.Error {
	return pipe.skipped
}

// Apply folds every transform over one pixel, each transform receives the
// output of the previous one as its base color
func (pipe *Pipeline) Apply(t float64, position int, all []model.Color) (c model.Color) {
	c = all[position]
	for _, st := range pipe.stages {
		c = st.tr.Apply(t, position, len(all), c, all)
	}
	return c
}
