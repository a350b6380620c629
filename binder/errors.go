package binder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHandlerNotFound matches every *HandlerNotFoundError via errors.Is.
var ErrHandlerNotFound = errors.New("handler not found")

// HandlerNotFoundError reports an operation declared in the document with no
// handler in the registry. An empty OperationID means the document omitted it.
type HandlerNotFoundError struct {
	OperationID string
	Method      string
	Path        string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("handler %q not found for %s %s", e.OperationID, strings.ToUpper(e.Method), e.Path)
}

func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}
