package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies failures so the dispatcher can pick a user-visible message
type Kind int

const (
	KindUnknown Kind = iota
	KindPermissionDenied
	KindInvalidInput
	KindScanTimeout
	KindCollaboratorFailure
	KindNotificationFailure
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindInvalidInput:
		return "InvalidInput"
	case KindScanTimeout:
		return "ScanTimeout"
	case KindCollaboratorFailure:
		return "CollaboratorFailure"
	case KindNotificationFailure:
		return "NotificationFailure"
	default:
		return "Unknown"
	}
}

// BotError is an error raised by a command handler
type BotError struct {
	Kind Kind
	// Message is shown to the invoking user. Empty means the kind's default.
	Message string
	Err     error
}

func (e *BotError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// Is matches any BotError of the same kind, so sentinels work with errors.Is
func (e *BotError) Is(target error) bool {
	t, ok := target.(*BotError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels usable with Is
var (
	ErrPermissionDenied    = &BotError{Kind: KindPermissionDenied}
	ErrInvalidInput        = &BotError{Kind: KindInvalidInput}
	ErrScanTimeout         = &BotError{Kind: KindScanTimeout}
	ErrCollaboratorFailure = &BotError{Kind: KindCollaboratorFailure}
	ErrNotificationFailure = &BotError{Kind: KindNotificationFailure}
)

// New creates a BotError with a user-visible message
func New(kind Kind, message string) *BotError {
	return &BotError{Kind: kind, Message: message}
}

// Wrap attaches a kind and a user-visible message to err
func Wrap(kind Kind, err error, message string) *BotError {
	return &BotError{Kind: kind, Message: message, Err: err}
}

// PermissionDenied reports a failed capability check
func PermissionDenied(message string) *BotError {
	return New(KindPermissionDenied, message)
}

// InvalidInput reports malformed user input
func InvalidInput(message string) *BotError {
	return New(KindInvalidInput, message)
}

// CollaboratorFailure wraps a failed call to Discord, VirusTotal or storage
func CollaboratorFailure(err error, message string) *BotError {
	return Wrap(KindCollaboratorFailure, err, message)
}

// KindOf returns the kind of the first BotError in err's chain
func KindOf(err error) Kind {
	var be *BotError
	if stderrors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// UserMessage returns the text shown to the user for err
func UserMessage(err error) string {
	var be *BotError
	if stderrors.As(err, &be) {
		if be.Message != "" {
			return be.Message
		}
		return defaultMessages[be.Kind]
	}
	return defaultMessages[KindUnknown]
}

var defaultMessages = map[Kind]string{
	KindUnknown:             "명령어 실행 중 오류가 발생했습니다!",
	KindPermissionDenied:    "❌ 이 명령어를 사용할 권한이 없습니다.",
	KindInvalidInput:        "❌ 입력값이 올바르지 않습니다.",
	KindScanTimeout:         "⏱️ 스캔 결과를 가져올 수 없습니다. 잠시 후 다시 시도해주세요.",
	KindCollaboratorFailure: "❌ 외부 서비스 호출 중 오류가 발생했습니다.",
	KindNotificationFailure: "⚠️ 알림을 전달하지 못했습니다.",
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
