package ticker

import (
	"errors"
	"fmt"
)

// ErrInitialization 行情列表加载/校验失败，进程应拒绝启动。
var ErrInitialization = errors.New("ticker list initialization failed")

// InitializationError 携带失败原因，同时可 errors.Is 到 ErrInitialization。
type InitializationError struct {
	Source string
	Err    error
}

func (e *InitializationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %v", ErrInitialization, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", ErrInitialization, e.Source, e.Err)
}

func (e *InitializationError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

func initErr(source string, err error) error {
	return &InitializationError{Source: source, Err: err}
}
