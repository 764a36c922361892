package service

import "errors"

var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrKeyNotFound              = errors.New("key not found")
	ErrKeyAlreadyClaimed        = errors.New("key already claimed")
	ErrDuplicateReferral        = errors.New("referral already recorded")
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountBanned       = errors.New("account is banned")
	ErrInvalidKeyKind      = errors.New("invalid key kind")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidIdentity     = errors.New("invalid identity")
	ErrInvalidSetting      = errors.New("invalid setting")
	ErrInvalidMessage      = errors.New("invalid message")
	ErrGrantNotFound       = errors.New("admin grant not found")
	ErrCodeSpaceExhausted  = errors.New("could not generate a unique key code")
)
