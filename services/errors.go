package services

import "errors"

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrSkillNotFound  = errors.New("skill not found")
	ErrInvalidMinutes = errors.New("practice minutes must be at least 1")
)
