package domain

import "errors"

// 领域错误：可预期、可恢复，由传输层映射为 4xx
var (
	ErrNotFound           = errors.New("not found")
	ErrHasDependents      = errors.New("has dependents")
	ErrDuplicate          = errors.New("duplicate key")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
