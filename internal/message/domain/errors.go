package domain

import "errors"

var (
	// ErrForbidden requester 不是對話成員
	ErrForbidden = errors.New("not a conversation participant")
	// ErrNotFound conversation 或 user 不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation 不合法的操作，例如自己跟自己開對話
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConflict 唯一鍵衝突，同一 pair 併發建立時由 repository 回報
	ErrConflict = errors.New("already exists")
)
