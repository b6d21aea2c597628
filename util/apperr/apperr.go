// Package apperr carries the error taxonomy shared by the services.
package apperr

import "errors"

type ErrCode string

const (
	CodeValidation        ErrCode = "VALIDATION"
	CodeInsufficientFunds ErrCode = "INSUFFICIENT_FUNDS"
	CodeInvalidState      ErrCode = "INVALID_STATE"
	CodeNotFound          ErrCode = "NOT_FOUND"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func New(code ErrCode, msg string) error { return codedError{code: code, msg: msg} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
