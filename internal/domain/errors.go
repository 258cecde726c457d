package domain

import "errors"

var (
	ErrProvider      = errors.New("model provider failed")
	ErrJudgeContract = errors.New("judge did not return valid JSON after one retry")
)

var (
	ErrEmptyTopic       = errors.New("empty topic")
	ErrTopicTooLong     = errors.New("topic too long")
	ErrInvalidAge       = errors.New("age must be between 1 and 18")
	ErrInvalidMaxLoops  = errors.New("max loops must be between 0 and 10")
	ErrInvalidThreshold = errors.New("threshold must be between 1 and 5")
)
