package bidding

import "errors"

var (
	ErrInvalidParams = errors.New("invalid strategy parameters")
	ErrUnknownPreset = errors.New("unknown strategy preset")
)
