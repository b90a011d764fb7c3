package payment

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrUpstream   = errors.New("payment provider error")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }
func IsErrUpstream(err error) bool   { return errors.Is(err, ErrUpstream) }
