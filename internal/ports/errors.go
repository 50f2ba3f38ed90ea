package ports

import (
	"errors"
	"fmt"
)

// ErrorKind tags the failure modes of a RoomService operation.
type ErrorKind int

const (
	// KindUnreachable: no response at all (timeout, DNS, TLS).
	KindUnreachable ErrorKind = iota + 1
	// KindRejected: a response arrived with a status outside 2xx.
	KindRejected
	// KindNotFound: the entity does not exist (404).
	KindNotFound
	// KindDecode: a 2xx body that does not match the expected shape.
	KindDecode
)

// ServiceError is the error every RoomService implementation returns, so
// callers can distinguish "not found" from "unreachable" when they want to.
type ServiceError struct {
	Kind    ErrorKind
	Status  int    // set when Kind is KindRejected or KindNotFound
	Message string // server message, when one was received
	Err     error  // underlying cause, when one exists
}

func (e *ServiceError) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("service unreachable: %v", e.Err)
	case KindRejected:
		return fmt.Sprintf("request rejected: %d %s", e.Status, e.Message)
	case KindNotFound:
		return "not found"
	case KindDecode:
		return fmt.Sprintf("cannot decode response: %v", e.Err)
	}
	return "unknown service error"
}

func (e *ServiceError) Unwrap() error { return e.Err }

func Unreachable(err error) error {
	return &ServiceError{Kind: KindUnreachable, Err: err}
}

func Rejected(status int, message string) error {
	return &ServiceError{Kind: KindRejected, Status: status, Message: message}
}

func NotFound() error {
	return &ServiceError{Kind: KindNotFound, Status: 404}
}

func Decode(err error) error {
	return &ServiceError{Kind: KindDecode, Err: err}
}

func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// UserMessage derives the human-readable string attached to list-level state.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if errors.As(err, &se) {
		switch se.Kind {
		case KindRejected:
			if se.Message != "" {
				return fmt.Sprintf("Error: %d %s", se.Status, se.Message)
			}
			return fmt.Sprintf("Error: %d", se.Status)
		case KindNotFound:
			return "Error: 404 not found"
		case KindDecode:
			return "Error: unexpected response from server"
		case KindUnreachable:
			return "Error: service unreachable"
		}
	}
	return err.Error()
}
