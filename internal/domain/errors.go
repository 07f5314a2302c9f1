package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotMember     = errors.New("not a member of mandal")
)
