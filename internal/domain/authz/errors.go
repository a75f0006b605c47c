package authz

import "errors"

var (
	ErrForbidden      = errors.New("caller is not allowed to perform this action")
	ErrMissingSubject = errors.New("no authenticated caller in context")
)
