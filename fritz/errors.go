package fritz

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the collection pipeline. All are terminal; no
// step retries internally. Match the sentinels with errors.Is and
// RetrievalError with errors.As.
var (
	ErrChallengeFetch     = errors.New("failed to get challenge")
	ErrSubmission         = errors.New("failed to login")
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrMalformedChallenge = errors.New("malformed challenge")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// RetrievalError reports a non-success HTTP status from the log endpoint.
type RetrievalError struct {
	StatusCode int
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve event log: status code %d", e.StatusCode)
}
