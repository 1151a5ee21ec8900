package transcode

import (
	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
)

// Wrapper holds one strong reference to a conversion product. Callers keep
// the result alive exactly as long as the wrapper, then Release it.
type Wrapper struct {
	obj      managed.Object
	released bool
}

// NewWrapper adopts the caller's strong reference to obj. The wrapper owns
// it from here; Release gives it up.
func NewWrapper(obj managed.Object) *Wrapper {
	return &Wrapper{obj: obj}
}

// Object returns the wrapped managed object. Fails after Release.
func (w *Wrapper) Object() (managed.Object, error) {
	if w.released {
		return nil, errors.Released("conversion wrapper")
	}
	return w.obj, nil
}

// Release drops the wrapper's reference. Safe to call more than once.
func (w *Wrapper) Release() {
	if w.released {
		return
	}
	w.released = true
	managed.Decref(w.obj)
}
