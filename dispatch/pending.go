package dispatch

import (
	"sync"
	"time"

	"github.com/mdzio/go-bowler/registry"
)

// callResult is what fulfils a PendingCall: either a decoded reply or an
// error (including ErrTimeout and any registry/codec error encountered
// while decoding the reply body).
type callResult struct {
	result registry.Result
	err    error
}

// PendingCall is the deferred-call handle returned by Handle.Call: the
// datagram has already been sent, and exactly one of a decoded reply, a
// timeout, or a cancellation will eventually fulfil it. It corresponds to
// the protocol's single-fire, event-key-correlated pending call, fulfilled
// without any wire-level correlation id.
type PendingCall struct {
	d        *Device
	eventKey string
	timer    *time.Timer
	resultCh chan callResult
	once     sync.Once
}

func newPendingCall(d *Device, eventKey string) *PendingCall {
	return &PendingCall{d: d, eventKey: eventKey, resultCh: make(chan callResult, 1)}
}

// deliver fulfils the call exactly once; subsequent calls are no-ops.
func (pc *PendingCall) deliver(result registry.Result, err error) {
	pc.once.Do(func() {
		if pc.timer != nil {
			pc.timer.Stop()
		}
		pc.resultCh <- callResult{result: result, err: err}
	})
}

// Then registers a continuation to run (on its own goroutine) when the call
// is fulfilled, whether by reply, timeout, or cancellation.
func (pc *PendingCall) Then(continuation func(registry.Result, error)) {
	go func() {
		r := <-pc.resultCh
		continuation(r.result, r.err)
	}()
}

// Wait blocks the calling goroutine until the call is fulfilled. It is safe
// to call from any goroutine except the device's own reactor, which must
// stay free to deliver the reply that unblocks it.
func (pc *PendingCall) Wait() (registry.Result, error) {
	r := <-pc.resultCh
	return r.result, r.err
}

// Cancel removes this call's listener, if it is still registered, and
// fulfils it with ErrTimeout's sibling: a cancelled call never receives a
// late reply, which is instead logged as spurious.
func (pc *PendingCall) Cancel() {
	pc.d.removePending(pc.eventKey, pc)
	pc.deliver(nil, ErrCancelled)
}
