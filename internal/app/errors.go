package service

import "errors"

var (
	ErrNotStarted = errors.New("service not started")
	ErrNoStore    = errors.New("no auction store configured")
)
