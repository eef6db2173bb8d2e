package gerr

// Outcome carries the result of one page or product request so callers can tell a retryable
// absence of data from a genuine fault without unwinding the whole batch.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fail wraps an error; the value is the zero value of T.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

func (o Outcome[T]) Kind() Kind {
	return Classify(o.Err)
}

// OK reports whether the operation succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// ValueOr returns the value on success and def otherwise.
func (o Outcome[T]) ValueOr(def T) T {
	if o.Err != nil {
		return def
	}
	return o.Value
}
