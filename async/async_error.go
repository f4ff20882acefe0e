package async

// AsyncError is a one-shot future holding an error.
// A producer goroutine completes it with SetValue, the owner polls it with TryGetValue.
type AsyncError struct {
	errCh     chan error
	val       error
	completed bool
}

func newAsyncError() *AsyncError {
	return &AsyncError{errCh: make(chan error, 1)}
}

// SetValue completes the AsyncError. Calling it twice panics.
func (e *AsyncError) SetValue(err error) {
	e.errCh <- err
	close(e.errCh)
}

// TryGetValue never blocks. It returns (false, nil) while pending and
// (true, value) once completed, on every later call as well.
func (e *AsyncError) TryGetValue() (bool, error) {
	if e.completed {
		return true, e.val
	}
	select {
	case err := <-e.errCh:
		e.val = err
		e.completed = true
		return true, err
	default:
		return false, nil
	}
}
