package model

import (
	"fmt"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// LoadPickledParams reads a pickled Python dict of hyperparameters, the
// artifact shape produced by the notebook workflow this library replaces
// (e.g. pickle.dump(reducer.get_params(), f)). The result feeds directly
// into an estimator's SetParams.
func LoadPickledParams(path string) (map[string]interface{}, error) {
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, accel.NewSerializationError("LoadPickledParams", "cannot read pickle", err)
	}

	dict, ok := obj.(*types.Dict)
	if !ok {
		return nil, accel.NewSerializationError("LoadPickledParams",
			fmt.Sprintf("pickled object is a %T, expected a dict", obj), nil)
	}

	params := make(map[string]interface{}, dict.Len())
	for _, k := range dict.Keys() {
		key, ok := k.(string)
		if !ok {
			return nil, accel.NewSerializationError("LoadPickledParams",
				fmt.Sprintf("dict key %v is not a string", k), nil)
		}
		params[key] = dict.MustGet(k)
	}
	return params, nil
}

// asInt converts the loosely typed values that arrive from pickled dicts or
// hand-built parameter maps.
func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("value %v is not an integer", v)
}

// asFloat converts the loosely typed values that arrive from pickled dicts
// or hand-built parameter maps.
func asFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("value %v is not a number", v)
}
