package tracer

import "errors"

var (
	ErrAlreadySetup         = errors.New("tracer: already set up")
	ErrSceneNotDefined      = errors.New("tracer: no scene defined")
	ErrInvalidBlockRequest  = errors.New("tracer: block request out of frame bounds")
	ErrInvalidChangePayload = errors.New("tracer: invalid change payload")
)
