package llm

import "errors"

// retryableError marks transient failures worth retrying.
type retryableError struct {
	err error
}

func (r *retryableError) Error() string {
	return r.err.Error()
}

func (r *retryableError) Unwrap() error {
	return r.err
}

// isRetryableError reports whether err is transient.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
