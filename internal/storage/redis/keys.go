package redis

import (
	"fmt"

	"github.com/mcoot/whoknow/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "whoknow"

// accountKey returns the Redis key for an Account
func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for an account's Credentials
func credentialsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// secretKey returns the Redis key for a room's round Secret
func secretKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:secret:%s", keyPrefix, code)
}
