package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks requests rejected locally before any network call
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInvalidPrivateKey      = errors.New("invalid private key")
	ErrInvalidDigest          = errors.New("invalid digest")
	ErrNothingToSign          = errors.New("nothing to sign")
	ErrSignatureCountMismatch = errors.New("signature count mismatch")
	// ErrMultipleSigningKeys is returned when a skeleton spends from more
	// than one address. Only one key per transaction is supported.
	ErrMultipleSigningKeys = errors.New("multiple signing keys not supported")
)

// RemoteError is returned for any non-2xx response. Url has the API token
// redacted; Body is the raw response body.
type RemoteError struct {
	Method     string
	Url        string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Url, e.StatusCode, e.Body)
}

// MalformedResponseError is returned when a successful response body is not
// valid JSON for the expected type.
type MalformedResponseError struct {
	Url  string
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unable to parse response from %s: %v, body: %s", e.Url, e.Err, e.Body)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SigningError is returned when digests cannot be signed or a skeleton is
// not correctly signed. Index is the offending digest position, or -1.
type SigningError struct {
	Reason string
	Index  int
	Err    error
}

func (e *SigningError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("signing failed at digest %d: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("signing failed: %s: %v", e.Reason, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// IsRemoteStatus reports whether err is a RemoteError with the given status
func IsRemoteStatus(err error, statusCode int) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == statusCode
	}
	return false
}
