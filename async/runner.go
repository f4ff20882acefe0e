// Package async runs blocking work on goroutines and delivers the results
// back to a single owner goroutine as callbacks.
package async

// Runner spawns goroutines for blocking functions and queues their callbacks
// in a Mailbox:
//
//	r := async.NewRunner()
//	r.RunAsync(func() error { return proc.Wait() }, func(err error) {
//	  delete(running, id) // safe: runs on the goroutine calling ProcessMessages
//	})
//	...
//	r.ProcessMessages()
type Runner struct {
	bx *Mailbox
}

func NewRunner() Runner {
	return Runner{bx: NewMailbox()}
}

// NumRunning counts functions whose callbacks have not run yet.
func (r *Runner) NumRunning() int {
	return r.bx.Count()
}

// RunAsync runs f on a new goroutine. cb is invoked with f's result by a later ProcessMessages.
func (r *Runner) RunAsync(f func() error, cb AsyncErrorResponseHandler) {
	rsp := r.bx.NewAsyncError(cb)
	go func() {
		rsp.SetValue(f())
	}()
}

// ProcessMessages runs the callbacks of every completed function on the calling goroutine.
func (r *Runner) ProcessMessages() int {
	return r.bx.ProcessMessages()
}
