package service

import "errors"

var (
	ErrUserNotFound      = errors.New("email doesn't exist")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailTaken        = errors.New("email already registered")
	ErrListTitleTaken    = errors.New("todo list title already exists")
	ErrListNotFound      = errors.New("todo list not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrForbidden         = errors.New("todo list belongs to another user")
	ErrInvalidSession    = errors.New("invalid or expired session")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternalServer    = errors.New("internal server error")
)
