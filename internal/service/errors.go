package service

import "errors"

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidPriority     = errors.New("priority must be between 0 and 3")
	ErrRepeatNotUnderstood = errors.New("repeat phrase not understood")
	ErrNoDueDate           = errors.New("repeating task has no due date")
	ErrAlreadyDone         = errors.New("task is already done")
	ErrNotDone             = errors.New("task is not done")
)
