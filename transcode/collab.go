package transcode

import (
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

// Promise mirrors a script promise in the managed space. A settled
// promise carries its result, converted through the never-failing entry
// point so observing a promise cannot itself fail.
type Promise struct {
	managed.Base
	State  script.PromiseState
	result *Wrapper
}

func (*Promise) Type() managed.Type { return managed.TypeWrapped }

// Result returns the settled result, or nil while pending.
func (p *Promise) Result() (managed.Object, error) {
	if p.result == nil {
		return nil, nil
	}
	return p.result.Object()
}

func (p *Promise) Drop() {
	if p.result != nil {
		p.result.Release()
	}
}

func (t *Transcoder) promiseToManaged(o *script.Object) *Promise {
	state, res := o.PromiseInfo()
	p := &Promise{Base: managed.NewBase(), State: state}
	if state != script.PromisePending {
		p.result = t.ToManagedSafe(res)
	}
	return p
}

// Exception carries a script error object into the managed space. It is
// both a managed object and a Go error.
type Exception struct {
	managed.Base
	Message string
}

func (*Exception) Type() managed.Type { return managed.TypeWrapped }

func (e *Exception) Error() string { return e.Message }

func newException(msg string) *Exception {
	return &Exception{Base: managed.NewBase(), Message: msg}
}
