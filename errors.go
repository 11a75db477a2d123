package kses

import "errors"

var (
	errEmptyProtocol  = errors.New("protocol must not be empty")
	errProtocolSyntax = errors.New("protocol may only contain letters, digits, '+', '-' and '.'")
)
