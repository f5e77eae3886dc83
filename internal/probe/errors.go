package probe

import "errors"

// Stage errors. Every error returned by Run wraps exactly one of them.
var (
	ErrConnect = errors.New("connect failed")
	ErrSend    = errors.New("send failed")
	ErrReceive = errors.New("receive failed")
)
