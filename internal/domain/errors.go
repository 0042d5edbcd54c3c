package domain

import "errors"

var (
	// ErrAlreadyLoggedIn is returned when login targets a session that is already logged in.
	ErrAlreadyLoggedIn = errors.New("session already logged in")
	// ErrCatalogEmpty indicates the question loader produced no questions.
	ErrCatalogEmpty = errors.New("question catalog is empty")
	// ErrCatalogNotDense indicates question ids are not exactly 0..N-1.
	ErrCatalogNotDense = errors.New("question ids must be dense starting at 0")
	// ErrQuestionNotFound indicates a question id outside the catalog.
	ErrQuestionNotFound = errors.New("question not found")
)

// ErrorKind classifies request validation failures.
type ErrorKind int

const (
	MissingParameter ErrorKind = iota + 1
	InvalidFormat
	InvalidAction
	ConflictingState
	UnknownEntity
)

func (k ErrorKind) String() string {
	switch k {
	case MissingParameter:
		return "missing_parameter"
	case InvalidFormat:
		return "invalid_format"
	case InvalidAction:
		return "invalid_action"
	case ConflictingState:
		return "conflicting_state"
	case UnknownEntity:
		return "unknown_entity"
	default:
		return "unknown"
	}
}

// RequestError is a caller-facing validation failure. Message is the literal
// text sent after the "Error: " prefix.
type RequestError struct {
	Kind    ErrorKind
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Request validation failures, in the order the dispatcher checks them.
var (
	ErrEmailMissing      = &RequestError{Kind: MissingParameter, Message: "Email parameter is missing"}
	ErrActionMissing     = &RequestError{Kind: MissingParameter, Message: "Action parameter is missing"}
	ErrInvalidEmail      = &RequestError{Kind: InvalidFormat, Message: "Invalid email address"}
	ErrInvalidAction     = &RequestError{Kind: InvalidAction, Message: "Invalid action"}
	ErrQuestionIDMissing = &RequestError{Kind: MissingParameter, Message: "Question ID parameter is missing"}
	ErrInvalidQuestionID = &RequestError{Kind: InvalidFormat, Message: "Invalid question ID"}
	ErrUnknownQuestion   = &RequestError{Kind: UnknownEntity, Message: "Question not found"}
	ErrUserLoggedIn      = &RequestError{Kind: ConflictingState, Message: "User is already logged in"}
)
