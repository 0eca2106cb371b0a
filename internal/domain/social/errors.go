package social

import (
	"context"
	"errors"
)

// Errors reported while calling or parsing an external evaluator.
var (
	ErrNoJSONObject = errors.New("no JSON object in response")
	ErrMissingScore = errors.New("social_score missing")
	ErrInvalidScore = errors.New("social_score is not a finite number")
	ErrNoCompleter  = errors.New("completer is nil")
	ErrEmptyReply   = errors.New("empty reply from model")

	ErrMissingExplanation = errors.New("explanation missing")
)

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func isParse(err error) bool {
	return errors.Is(err, ErrNoJSONObject) ||
		errors.Is(err, ErrMissingScore) ||
		errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrMissingExplanation)
}
