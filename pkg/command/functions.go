package command

import (
	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// =============================================================================
// Reduction Functions
// =============================================================================

// ReduceFunction names a pure reduction mapping a list of dimension values
// to one representative value. The name, not the function, is what gets
// recorded in operations, keeping them serializable and replayable.
type ReduceFunction string

// Reduction policies.
const (
	ReduceMin     ReduceFunction = "min"
	ReduceMax     ReduceFunction = "max"
	ReduceAverage ReduceFunction = "average"
	ReduceFirst   ReduceFunction = "first"
	ReduceLast    ReduceFunction = "last"
)

// reducers is the fixed name → function lookup table.
var reducers = map[ReduceFunction]func([]float64) float64{
	ReduceMin: func(vals []float64) float64 {
		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}
		return min
	},
	ReduceMax: func(vals []float64) float64 {
		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}
		return max
	},
	ReduceAverage: func(vals []float64) float64 {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	},
	ReduceFirst: func(vals []float64) float64 { return vals[0] },
	ReduceLast:  func(vals []float64) float64 { return vals[len(vals)-1] },
}

// Valid reports whether the name is a known reduction policy.
func (f ReduceFunction) Valid() bool {
	_, ok := reducers[f]
	return ok
}

// Apply reduces the values. It returns false for an empty input or an
// unknown policy name.
func (f ReduceFunction) Apply(vals []float64) (float64, bool) {
	fn, ok := reducers[f]
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return fn(vals), true
}

// ParseReduceFunction validates a reduction policy name.
func ParseReduceFunction(s string) (ReduceFunction, error) {
	f := ReduceFunction(s)
	if !f.Valid() {
		return "", errors.New(errors.ErrCodeInvalidFunction,
			"invalid reduce function: %q (must be one of: min, max, average, first, last)", s)
	}
	return f, nil
}

// =============================================================================
// Selection Functions
// =============================================================================

// SelectFunction names a pure policy narrowing the candidate elements used
// to compute an alignment reference. It is decoupled from the set that
// moves: all qualifying elements always move.
type SelectFunction string

// Selection policies.
const (
	SelectAll   SelectFunction = "all"
	SelectFirst SelectFunction = "first"
	SelectLast  SelectFunction = "last"
)

// selectors is the fixed name → function lookup table.
var selectors = map[SelectFunction]func([]*model.Element) []*model.Element{
	SelectAll: func(els []*model.Element) []*model.Element { return els },
	SelectFirst: func(els []*model.Element) []*model.Element {
		return els[:1]
	},
	SelectLast: func(els []*model.Element) []*model.Element {
		return els[len(els)-1:]
	},
}

// Valid reports whether the name is a known selection policy.
func (f SelectFunction) Valid() bool {
	_, ok := selectors[f]
	return ok
}

// Apply narrows the elements. It returns nil for an empty input or an
// unknown policy name.
func (f SelectFunction) Apply(els []*model.Element) []*model.Element {
	fn, ok := selectors[f]
	if !ok || len(els) == 0 {
		return nil
	}
	return fn(els)
}

// ParseSelectFunction validates a selection policy name.
func ParseSelectFunction(s string) (SelectFunction, error) {
	f := SelectFunction(s)
	if !f.Valid() {
		return "", errors.New(errors.ErrCodeInvalidFunction,
			"invalid select function: %q (must be one of: all, first, last)", s)
	}
	return f, nil
}
