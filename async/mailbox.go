package async

// Mailbox keeps pending AsyncErrors together with their callbacks and runs a
// callback on the owner's goroutine once its AsyncError is completed.
//
// The local runner uses it so that process exits, which are observed on
// per-process goroutines, only mutate runner state from the scheduler loop.
//
// A Mailbox is not thread-safe: NewAsyncError and ProcessMessages must be
// called from the same goroutine.
type Mailbox struct {
	msgs []message
}

// AsyncErrorResponseHandler is invoked with the completed value.
type AsyncErrorResponseHandler func(error)

type message struct {
	err      *AsyncError
	callback AsyncErrorResponseHandler
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Count returns the number of callbacks still waiting.
func (bx *Mailbox) Count() int {
	return len(bx.msgs)
}

// NewAsyncError registers cb and returns the AsyncError that will trigger it.
func (bx *Mailbox) NewAsyncError(cb AsyncErrorResponseHandler) *AsyncError {
	msg := message{err: newAsyncError(), callback: cb}
	bx.msgs = append(bx.msgs, msg)
	return msg.err
}

// ProcessMessages runs the callbacks of completed AsyncErrors in registration
// order and forgets them. It returns the number of callbacks run.
func (bx *Mailbox) ProcessMessages() int {
	var pending []message
	ran := 0
	for _, msg := range bx.msgs {
		if ok, err := msg.err.TryGetValue(); ok {
			msg.callback(err)
			ran++
		} else {
			pending = append(pending, msg)
		}
	}
	bx.msgs = pending
	return ran
}
