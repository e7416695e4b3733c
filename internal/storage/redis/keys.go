package redis

import (
	"fmt"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ttt"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// allGamesIndexKey returns the Redis key for the SET of every game ID
func allGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// activeGamesIndexKey returns the Redis key for the SET of non-terminal game IDs
func activeGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:active_games", keyPrefix)
}

// playerGamesIndexKey returns the Redis key for the SET of games a player is in
func playerGamesIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_games:%s", keyPrefix, playerID)
}

// movesKey returns the Redis key for the LIST of a game's moves
func movesKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, gameID)
}

// cellsKey returns the Redis key for the HASH guarding occupied cells and sequence numbers
func cellsKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:cells:%s", keyPrefix, gameID)
}

// invitationKey returns the Redis key for an Invitation
func invitationKey(id model.InvitationID) string {
	return fmt.Sprintf("%s:invitation:%s", keyPrefix, id)
}

// invitationsToIndexKey returns the Redis key for the SET of invitations a player received
func invitationsToIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:invitations_to:%s", keyPrefix, playerID)
}

// invitationsFromIndexKey returns the Redis key for the SET of invitations a player sent
func invitationsFromIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:invitations_from:%s", keyPrefix, playerID)
}

func cellField(x, y int) string {
	return fmt.Sprintf("cell:%d:%d", x, y)
}

func seqField(seq int) string {
	return fmt.Sprintf("seq:%d", seq)
}
