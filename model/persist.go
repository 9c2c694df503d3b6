package model

import (
	"encoding/gob"
	"fmt"
	"os"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// artifactVersion tags the on-disk envelope so older readers fail loudly
// instead of misreading newer layouts.
const artifactVersion = 1

// artifact is the serialized envelope. The payload is one of the registered
// estimator types; the whole artifact is an opaque byte blob to callers.
type artifact struct {
	Version   int
	Estimator interface{}
}

func init() {
	gob.Register(&StandardScaler{})
	gob.Register(&NearestNeighbors{})
	gob.Register(&KMeans{})
	gob.Register(&LinearRegression{})
	gob.Register(&UMAP{})
}

// Save serializes an estimator to path. The artifact records no device
// state: it can be written under one device context and loaded under
// another.
func Save(path string, est interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return accel.NewSerializationError("Save", "cannot create artifact file", err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	if err := enc.Encode(artifact{Version: artifactVersion, Estimator: est}); err != nil {
		return accel.NewSerializationError("Save", "encoding failed", err)
	}
	return nil
}

// Load deserializes an estimator previously written by Save. The caller
// type-asserts the result:
//
//	est, err := model.Load("reducer.bin")
//	reducer := est.(*model.UMAP)
func Load(path string) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, accel.NewSerializationError("Load", "cannot open artifact file", err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, accel.NewSerializationError("Load", "decoding failed", err)
	}
	if art.Version != artifactVersion {
		return nil, accel.NewSerializationError("Load",
			fmt.Sprintf("unsupported artifact version %d", art.Version), nil)
	}
	if art.Estimator == nil {
		return nil, accel.NewSerializationError("Load", "artifact contains no estimator", nil)
	}
	return art.Estimator, nil
}

// Persistable implementations. Each estimator saves itself through the
// shared envelope and loads by replacing its own state.

// Save writes the scaler to path.
func (s *StandardScaler) Save(path string) error { return Save(path, s) }

// Load replaces the scaler state from path.
func (s *StandardScaler) Load(path string) error {
	return loadInto(path, func(got interface{}) bool {
		v, ok := got.(*StandardScaler)
		if ok {
			*s = *v
		}
		return ok
	})
}

// Save writes the index to path.
func (nn *NearestNeighbors) Save(path string) error { return Save(path, nn) }

// Load replaces the index state from path.
func (nn *NearestNeighbors) Load(path string) error {
	return loadInto(path, func(got interface{}) bool {
		v, ok := got.(*NearestNeighbors)
		if ok {
			*nn = *v
		}
		return ok
	})
}

// Save writes the estimator to path.
func (km *KMeans) Save(path string) error { return Save(path, km) }

// Load replaces the estimator state from path.
func (km *KMeans) Load(path string) error {
	return loadInto(path, func(got interface{}) bool {
		v, ok := got.(*KMeans)
		if ok {
			*km = *v
		}
		return ok
	})
}

// Save writes the estimator to path.
func (lr *LinearRegression) Save(path string) error { return Save(path, lr) }

// Load replaces the estimator state from path.
func (lr *LinearRegression) Load(path string) error {
	return loadInto(path, func(got interface{}) bool {
		v, ok := got.(*LinearRegression)
		if ok {
			*lr = *v
		}
		return ok
	})
}

// Save writes the estimator to path.
func (u *UMAP) Save(path string) error { return Save(path, u) }

// Load replaces the estimator state from path.
func (u *UMAP) Load(path string) error {
	return loadInto(path, func(got interface{}) bool {
		v, ok := got.(*UMAP)
		if ok {
			*u = *v
		}
		return ok
	})
}

// loadInto loads an artifact and hands it to assign, which reports whether
// the payload had the expected concrete type.
func loadInto(path string, assign func(interface{}) bool) error {
	got, err := Load(path)
	if err != nil {
		return err
	}
	if !assign(got) {
		return accel.NewSerializationError("Load",
			fmt.Sprintf("artifact holds a %T, not the expected estimator type", got), nil)
	}
	return nil
}
