package testutil

import (
	"fmt"
	"time"

	"tourney/domain/entities"
)

// CreateTestUser returns an unsaved user with a placeholder password hash
func CreateTestUser(username string) *entities.User {
	return &entities.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "$2a$10$test.hash.not.used.for.login",
	}
}

// CreateTestAdmin returns an unsaved admin user
func CreateTestAdmin(username string) *entities.User {
	user := CreateTestUser(username)
	user.IsAdmin = true
	return user
}

// CreateTestGamingID returns an unsaved active PUBG gaming ID for userID
func CreateTestGamingID(userID int64, username string) *entities.GamingID {
	return &entities.GamingID{
		UserID:      userID,
		Platform:    entities.DefaultPlatform,
		Username:    username,
		DisplayName: username,
		IsActive:    true,
	}
}

// CreateTestRoom returns an unsaved open multiplayer room
func CreateTestRoom(createdBy int64, maxPlayers int, entryFee int64) *entities.Room {
	eventTiming := time.Now().Add(2 * time.Hour).UTC()
	return &entities.Room{
		Name:              fmt.Sprintf("Test Room %d", time.Now().UnixNano()),
		GameType:          "PUBG",
		EntryFee:          entryFee,
		PrizePool:         1000,
		MaxPlayers:        maxPlayers,
		MinTeamSize:       1,
		MaxTeamSize:       4,
		MinPlayersToStart: 1,
		IsMultiplayer:     true,
		IsActive:          true,
		Status:            entities.RoomStatusOpen,
		EventTiming:       &eventTiming,
		ConfigVersion:     entities.RoomConfigVersion,
		CreatedBy:         createdBy,
	}
}

// CreateTestTeam returns an unsaved team whose roster is built from names
func CreateTestTeam(userID int64, name string, names ...string) *entities.Team {
	inputs := make([]entities.MemberInput, 0, len(names))
	for _, n := range names {
		inputs = append(inputs, entities.MemberInput{Username: n})
	}
	members := entities.BuildRoster(inputs, "")
	return &entities.Team{
		UserID:   userID,
		Name:     name,
		TeamSize: len(members),
		Members:  members,
		IsActive: true,
	}
}
