package affiliation

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }
func IsErrConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsErrForbidden(err error) bool  { return errors.Is(err, ErrForbidden) }
