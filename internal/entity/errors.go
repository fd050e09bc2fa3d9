package entity

import "errors"

// Domain errors for users, words and the quiz round pipeline.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidUserName     = errors.New("invalid user name")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrWordNotFound        = errors.New("word not found")
	ErrDuplicateWord       = errors.New("word already exists")
	ErrInvalidWordPair     = errors.New("invalid word pair")
	ErrBulkSourceEmpty     = errors.New("bulk word source is empty")
	ErrMalformedRow        = errors.New("malformed bulk word row")
	ErrNotEnoughCandidates = errors.New("not enough candidate words")
)
