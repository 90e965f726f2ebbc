package model

import "errors"

// Common errors used across the application
var (
	// Lookup errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrAccountNotFound = errors.New("account not found")

	// Authorization errors
	ErrNotRoomHost = errors.New("player is not the room host")
	ErrNotGameHost = errors.New("player is not the in-game host")

	// State errors
	ErrInvalidState        = errors.New("action not allowed in the current phase")
	ErrInsufficientPlayers = errors.New("at least 4 players are needed to start")

	// Input errors
	ErrInvalidConfig = errors.New("invalid room configuration")
	ErrEmptyWord     = errors.New("word must not be empty")
	ErrEmptyName     = errors.New("name must not be empty")
)
