package apperrors

import "errors"

// 使用者輸入類錯誤：由 handler 轉成對應的 HTTP 回應
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrHoldNotFound      = errors.New("hold not found")
	ErrInsufficientSeats = errors.New("insufficient seats")
	ErrInvalidTTL        = errors.New("ttl out of allowed range")
	ErrHoldNotActive     = errors.New("hold is not active")
	ErrHoldExpired       = errors.New("hold has expired")
	ErrInvalidInput      = errors.New("invalid input")
)

// 內部錯誤類：代表系統自身的保證被打破，必須記 Error log，不可吞掉
var (
	// ErrInvariantViolation 座位計數出現負數等不可能狀態，
	// 表示 no-overbooking 保證可能已經被破壞
	ErrInvariantViolation     = errors.New("seat accounting invariant violation")
	ErrInvalidStateTransition = errors.New("invalid hold state transition")
	ErrInternalServerError    = errors.New("internal server error")
)
