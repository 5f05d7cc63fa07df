package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSenderNotFound      = errors.New("sender not found")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrRoomConflict        = errors.New("room conflict")
	ErrRoomNotFound        = errors.New("room not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrUnauthorized        = errors.New("not a room participant")
)
