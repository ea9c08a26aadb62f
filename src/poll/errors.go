package poll

import "errors"

var (
	ErrNotFound   = errors.New("poll not found")
	ErrClosed     = errors.New("poll is closed")
	ErrNotAllowed = errors.New("not allowed")
	ErrBadOption  = errors.New("option does not belong to poll")
)
