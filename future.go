package console

// PanicHandler is called with the recovered value if a future's goroutine panics.
type PanicHandler interface {
	HandlePanic(interface{})
}

// NoopPanicHandler lets panics propagate.
type NoopPanicHandler struct{}

func (NoopPanicHandler) HandlePanic(interface{}) {}

// Future is the result of an asynchronous operation.
type Future[T any] struct {
	resCh        chan res[T]
	panicHandler PanicHandler
}

type res[T any] struct {
	val T
	err error
}

// NewFuture runs fn in a new goroutine, returning a handle to its eventual result.
func NewFuture[T any](panicHandler PanicHandler, fn func() (T, error)) *Future[T] {
	resCh := make(chan res[T])
	job := &Future[T]{
		resCh:        resCh,
		panicHandler: panicHandler,
	}

	go func() {
		defer job.handlePanic()

		val, err := fn()

		resCh <- res[T]{val: val, err: err}
	}()

	return job
}

// Then calls fn with the result once it is available.
func (job *Future[T]) Then(fn func(T, error)) {
	go func() {
		defer job.handlePanic()

		res := <-job.resCh

		fn(res.val, res.err)
	}()
}

// Get blocks until the result is available.
func (job *Future[T]) Get() (T, error) {
	res := <-job.resCh

	return res.val, res.err
}

func (job *Future[T]) handlePanic() {
	if job.panicHandler == nil {
		return
	}

	if r := recover(); r != nil {
		job.panicHandler.HandlePanic(r)
	}
}
