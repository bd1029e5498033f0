package service

import "errors"

// Business errors returned by the services. Handlers map these onto HTTP
// status codes; anything unexpected collapses into ErrInternalServer so
// infrastructure detail never leaks to clients.
var (
	ErrBoardNotFound    = errors.New("board not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidCategory  = errors.New("invalid feedback type")
	ErrInternalServer   = errors.New("internal server error")
)
