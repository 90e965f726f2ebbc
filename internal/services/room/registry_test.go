package room

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/whoknow/internal/dependencies/mocks"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/storage/memory"
	"github.com/mcoot/whoknow/internal/testutil"
)

const testCode = model.RoomCode("ABCDEF")

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = NewRegistry(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// seatedRoom creates a room owned by p1 with players p1..pn seated
func (s *RegistrySuite) seatedRoom(n int) *model.Room {
	s.random.QueueString(string(testCode))
	room, err := s.registry.CreateRoom(s.ctx, "p1")
	s.Require().NoError(err)
	for i := 1; i <= n; i++ {
		id := model.PlayerID(fmt.Sprintf("p%d", i))
		room, err = s.registry.JoinRoom(s.ctx, testCode, id, fmt.Sprintf("Player %d", i))
		s.Require().NoError(err)
	}
	return room
}

// startRound starts a four-player round with p1 as host and p2 as insider
func (s *RegistrySuite) startRound() *model.Room {
	s.random.QueueIntn(0, 0)
	room, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)
	return room
}

// toVoting runs a started round through word setting into voting
func (s *RegistrySuite) toVoting() {
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)
	_, err = s.registry.EndQuestioning(s.ctx, testCode, "p1", false)
	s.Require().NoError(err)
}

func (s *RegistrySuite) scores(room *model.Room) map[model.PlayerID]int {
	out := make(map[model.PlayerID]int, len(room.Players))
	for _, p := range room.Players {
		out[p.ID] = p.Score
	}
	return out
}

// CreateRoom tests

func (s *RegistrySuite) TestCreateRoomSucceeds() {
	s.random.QueueString("ABCDEF")
	s.random.QueueID("room-uuid")

	room, err := s.registry.CreateRoom(s.ctx, "creator")
	s.Require().NoError(err)

	s.Equal(testCode, room.Code)
	s.Equal("room-uuid", room.ID)
	s.Equal(model.StatusLobby, room.Status)
	s.Equal(model.PlayerID("creator"), room.HostID)
	s.Empty(room.Players)
	s.Equal(model.DefaultRoomConfig(), room.Config)
	s.Equal(0, room.Round)
	s.Nil(room.EndTime)
	s.Nil(room.Votes)
	s.Equal(model.WinnerNone, room.Winner)
}

func (s *RegistrySuite) TestCreateRoomIsPersisted() {
	s.random.QueueString("ABCDEF")
	_, err := s.registry.CreateRoom(s.ctx, "creator")
	s.Require().NoError(err)

	stored, err := s.registry.GetRoom(s.ctx, testCode)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("creator"), stored.HostID)
}

func (s *RegistrySuite) TestCreateRoomRegeneratesTakenCode() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{Code: "AAAAAA"}))
	s.random.QueueString("AAAAAA", "BBBBBB")

	room, err := s.registry.CreateRoom(s.ctx, "creator")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("BBBBBB"), room.Code)
}

func (s *RegistrySuite) TestCreateRoomGivesUpAfterRepeatedCollisions() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{Code: "AAAAAA"}))
	for range maxCodeAttempts {
		s.random.QueueString("AAAAAA")
	}

	_, err := s.registry.CreateRoom(s.ctx, "creator")
	s.ErrorIs(err, ErrCodesExhausted)
}

// GetRoom tests

func (s *RegistrySuite) TestGetRoomNotFound() {
	_, err := s.registry.GetRoom(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// JoinRoom tests

func (s *RegistrySuite) TestJoinRoomAppendsPlayer() {
	s.seatedRoom(0)

	room, err := s.registry.JoinRoom(s.ctx, testCode, "p1", "Alice")
	s.Require().NoError(err)

	s.Require().Len(room.Players, 1)
	p := room.Players[0]
	s.Equal(model.PlayerID("p1"), p.ID)
	s.Equal("Alice", p.Name)
	s.Equal(0, p.Score)
	s.Equal(model.RoleNone, p.Role)
	s.False(p.HasBeenHost)
	s.Equal(s.clock.Now(), p.JoinedAt)
}

func (s *RegistrySuite) TestJoinRoomKeepsJoinOrder() {
	room := s.seatedRoom(3)

	s.Equal(model.PlayerID("p1"), room.Players[0].ID)
	s.Equal(model.PlayerID("p2"), room.Players[1].ID)
	s.Equal(model.PlayerID("p3"), room.Players[2].ID)
}

func (s *RegistrySuite) TestJoinRoomTwiceIsNoOp() {
	s.seatedRoom(1)
	s.clock.Advance(time.Minute)

	room, err := s.registry.JoinRoom(s.ctx, testCode, "p1", "Renamed")
	s.Require().NoError(err)

	s.Len(room.Players, 1)
	s.Equal("Player 1", room.Players[0].Name)
	s.NotEqual(s.clock.Now(), room.UpdatedAt)
}

func (s *RegistrySuite) TestJoinRoomNotFound() {
	_, err := s.registry.JoinRoom(s.ctx, "NOPE00", "p1", "Alice")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestJoinRoomRejectedAfterStart() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.JoinRoom(s.ctx, testCode, "late", "Latecomer")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *RegistrySuite) TestRejoinDuringRoundIsNoOp() {
	s.seatedRoom(4)
	s.startRound()

	room, err := s.registry.JoinRoom(s.ctx, testCode, "p3", "Player 3")
	s.Require().NoError(err)
	s.Len(room.Players, 4)
	s.Equal(model.StatusWordSetting, room.Status)
}

// StartGame tests

func (s *RegistrySuite) TestStartGameRequiresRoomHost() {
	s.seatedRoom(4)

	_, _, err := s.registry.StartGame(s.ctx, testCode, "p2")
	s.ErrorIs(err, model.ErrNotRoomHost)
}

func (s *RegistrySuite) TestStartGameRequiresFourPlayers() {
	s.seatedRoom(3)

	_, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.ErrorIs(err, model.ErrInsufficientPlayers)

	room, err := s.registry.GetRoom(s.ctx, testCode)
	s.Require().NoError(err)
	s.Equal(model.StatusLobby, room.Status)
}

func (s *RegistrySuite) TestStartGameRequiresLobby() {
	s.seatedRoom(4)
	s.startRound()

	_, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *RegistrySuite) TestStartGameHostCheckPrecedesPhaseCheck() {
	s.seatedRoom(4)
	s.startRound()

	_, _, err := s.registry.StartGame(s.ctx, testCode, "p2")
	s.ErrorIs(err, model.ErrNotRoomHost)
}

func (s *RegistrySuite) TestStartGameAssignsRoles() {
	s.seatedRoom(4)
	// Round robin: host is eligible[2] = p3; insider is rest[1] = p2
	s.random.QueueIntn(2, 1)

	room, roles, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(map[model.PlayerID]model.Role{
		"p1": model.RoleCommoner,
		"p2": model.RoleInsider,
		"p3": model.RoleHost,
		"p4": model.RoleCommoner,
	}, roles)
	s.Equal(model.StatusWordSetting, room.Status)
	s.Equal(1, room.Round)
	s.True(room.GetPlayer("p3").HasBeenHost)
	s.False(room.GetPlayer("p1").HasBeenHost)
	s.Equal([]int{4, 3}, s.random.IntnCalls)
}

func (s *RegistrySuite) TestStartGameRoundRobinSkipsPreviousHosts() {
	s.seatedRoom(4)
	room, _ := s.storage.GetRoom(s.ctx, testCode)
	room.Players[0].HasBeenHost = true
	room.Players[2].HasBeenHost = true
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	// Eligible are p2 and p4
	s.random.QueueIntn(1, 0)
	room, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(model.RoleHost, room.RoleOf("p4"))
	s.Equal(2, s.random.IntnCalls[0])
}

func (s *RegistrySuite) TestStartGameRoundRobinResetsWhenEveryoneHosted() {
	s.seatedRoom(4)
	room, _ := s.storage.GetRoom(s.ctx, testCode)
	for i := range room.Players {
		room.Players[i].HasBeenHost = true
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.random.QueueIntn(3, 0)
	room, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(4, s.random.IntnCalls[0])
	s.Equal(model.RoleHost, room.RoleOf("p4"))
	s.True(room.GetPlayer("p4").HasBeenHost)
	s.False(room.GetPlayer("p1").HasBeenHost)
	s.False(room.GetPlayer("p2").HasBeenHost)
	s.False(room.GetPlayer("p3").HasBeenHost)
}

func (s *RegistrySuite) TestStartGameFixedUsesRoomHost() {
	s.seatedRoom(4)
	fixed := model.HostSelectionFixed
	_, err := s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{HostSelection: &fixed})
	s.Require().NoError(err)

	s.random.QueueIntn(2)
	room, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(model.RoleHost, room.RoleOf("p1"))
	s.Equal(model.RoleInsider, room.RoleOf("p4"))
	// Only the insider pick is random
	s.Equal([]int{3}, s.random.IntnCalls)
}

func (s *RegistrySuite) TestStartGameFixedFallsBackToFirstSeat() {
	s.random.QueueString(string(testCode))
	_, err := s.registry.CreateRoom(s.ctx, "owner")
	s.Require().NoError(err)
	for i := 1; i <= 4; i++ {
		_, err := s.registry.JoinRoom(s.ctx, testCode, model.PlayerID(fmt.Sprintf("p%d", i)), "P")
		s.Require().NoError(err)
	}
	fixed := model.HostSelectionFixed
	_, err = s.registry.UpdateConfig(s.ctx, testCode, "owner", model.ConfigPatch{HostSelection: &fixed})
	s.Require().NoError(err)

	room, _, err := s.registry.StartGame(s.ctx, testCode, "owner")
	s.Require().NoError(err)
	s.Equal(model.RoleHost, room.RoleOf("p1"))
}

func (s *RegistrySuite) TestStartGameRandomPicksFromWholeRoster() {
	s.seatedRoom(4)
	random := model.HostSelectionRandom
	_, err := s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{HostSelection: &random})
	s.Require().NoError(err)
	room, _ := s.storage.GetRoom(s.ctx, testCode)
	room.Players[3].HasBeenHost = true
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.random.QueueIntn(3, 0)
	room, _, err = s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(model.RoleHost, room.RoleOf("p4"))
	s.Equal(model.RoleInsider, room.RoleOf("p1"))
	s.Equal([]int{4, 3}, s.random.IntnCalls)
}

// SetWord tests

func (s *RegistrySuite) TestSetWordStartsQuestioning() {
	s.seatedRoom(4)
	s.startRound()

	room, err := s.registry.SetWord(s.ctx, testCode, "  apple ", "p1")
	s.Require().NoError(err)

	s.Equal(model.StatusQuestioning, room.Status)
	s.Require().NotNil(room.EndTime)
	s.Equal(s.clock.Now().Add(3*time.Minute), *room.EndTime)

	secret, err := s.storage.GetSecret(s.ctx, testCode)
	s.Require().NoError(err)
	s.Equal("apple", secret.Word)
	s.Equal(1, secret.Round)
}

func (s *RegistrySuite) TestSetWordUsesConfiguredTimer() {
	s.seatedRoom(4)
	minutes := 7
	_, err := s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{TimerMinutes: &minutes})
	s.Require().NoError(err)
	s.startRound()

	room, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(7*time.Minute), *room.EndTime)
}

func (s *RegistrySuite) TestSetWordRequiresGameHost() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p2")
	s.ErrorIs(err, model.ErrNotGameHost)
}

func (s *RegistrySuite) TestSetWordRejectsBlankWord() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.SetWord(s.ctx, testCode, "   ", "p1")
	s.ErrorIs(err, model.ErrEmptyWord)

	room, _ := s.registry.GetRoom(s.ctx, testCode)
	s.Equal(model.StatusWordSetting, room.Status)
}

func (s *RegistrySuite) TestSetWordOutsideWordSettingFails() {
	s.seatedRoom(4)

	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.ErrorIs(err, model.ErrInvalidState)

	s.startRound()
	_, err = s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)

	_, err = s.registry.SetWord(s.ctx, testCode, "banana", "p1")
	s.ErrorIs(err, model.ErrInvalidState)

	secret, _ := s.storage.GetSecret(s.ctx, testCode)
	s.Equal("apple", secret.Word)
}

// EndQuestioning tests

func (s *RegistrySuite) TestEndQuestioningOpensVoting() {
	s.seatedRoom(4)
	s.startRound()
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)

	room, err := s.registry.EndQuestioning(s.ctx, testCode, "p1", false)
	s.Require().NoError(err)

	s.Equal(model.StatusVoting, room.Status)
	s.Nil(room.EndTime)
	s.NotNil(room.Votes)
	s.Empty(room.Votes)
	s.Equal(model.WinnerNone, room.Winner)
}

func (s *RegistrySuite) TestEndQuestioningTimeoutEndsRoundWithoutScoring() {
	s.seatedRoom(4)
	s.startRound()
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)

	room, err := s.registry.EndQuestioning(s.ctx, testCode, "p1", true)
	s.Require().NoError(err)

	s.Equal(model.StatusResult, room.Status)
	s.Equal(model.WinnerTimeout, room.Winner)
	s.Nil(room.EndTime)
	s.Nil(room.Votes)
	for _, p := range room.Players {
		s.Equal(0, p.Score)
	}
}

func (s *RegistrySuite) TestEndQuestioningRequiresGameHost() {
	s.seatedRoom(4)
	s.startRound()
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)

	_, err = s.registry.EndQuestioning(s.ctx, testCode, "p3", false)
	s.ErrorIs(err, model.ErrNotGameHost)
}

func (s *RegistrySuite) TestEndQuestioningOutsideQuestioningFails() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.EndQuestioning(s.ctx, testCode, "p1", false)
	s.ErrorIs(err, model.ErrInvalidState)
}

// SubmitVote tests

func (s *RegistrySuite) TestSubmitVoteOutsideVotingFails() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.SubmitVote(s.ctx, testCode, "p2", "p3")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *RegistrySuite) TestSubmitVoteRequiresSeatedPlayers() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	_, err := s.registry.SubmitVote(s.ctx, testCode, "ghost", "p3")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.registry.SubmitVote(s.ctx, testCode, "p3", "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RegistrySuite) TestSubmitVoteOverwritesPreviousVote() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	_, err := s.registry.SubmitVote(s.ctx, testCode, "p3", "p4")
	s.Require().NoError(err)
	room, err := s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	s.Require().NoError(err)

	s.Equal(model.StatusVoting, room.Status)
	s.Equal(map[model.PlayerID]model.PlayerID{"p3": "p2"}, room.Votes)
}

func (s *RegistrySuite) TestMajorityOnInsiderCommonersWin() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	// p2 is the insider
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p4", "p2")
	room, err := s.registry.SubmitVote(s.ctx, testCode, "p2", "p3")
	s.Require().NoError(err)

	s.Equal(model.StatusResult, room.Status)
	s.Equal(model.WinnerCommoners, room.Winner)
	s.Equal(map[model.PlayerID]int{"p1": 1, "p2": 0, "p3": 1, "p4": 1}, s.scores(room))
}

func (s *RegistrySuite) TestTieIncludingInsiderCommonersWin() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p4", "p3")
	room, err := s.registry.SubmitVote(s.ctx, testCode, "p2", "p4")
	s.Require().NoError(err)

	s.Equal(model.WinnerCommoners, room.Winner)
	s.Equal(map[model.PlayerID]int{"p1": 1, "p2": 0, "p3": 1, "p4": 1}, s.scores(room))
}

func (s *RegistrySuite) TestMissedInsiderInsiderWins() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p2", "p3")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p4")
	room, err := s.registry.SubmitVote(s.ctx, testCode, "p4", "p3")
	s.Require().NoError(err)

	s.Equal(model.StatusResult, room.Status)
	s.Equal(model.WinnerInsider, room.Winner)
	s.Equal(map[model.PlayerID]int{"p1": 0, "p2": 2, "p3": 0, "p4": 0}, s.scores(room))
}

func (s *RegistrySuite) TestVotingStaysOpenUntilEveryNonHostVoted() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()

	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	room, err := s.registry.SubmitVote(s.ctx, testCode, "p4", "p2")
	s.Require().NoError(err)

	s.Equal(model.StatusVoting, room.Status)
	s.Len(room.Votes, 2)
}

func (s *RegistrySuite) TestSubmitVoteAfterResultFails() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p2", "p3")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p4", "p2")

	_, err := s.registry.SubmitVote(s.ctx, testCode, "p4", "p3")
	s.ErrorIs(err, model.ErrInvalidState)
}

// ResetGame tests

func (s *RegistrySuite) TestResetGameReturnsToLobbyKeepingScores() {
	s.seatedRoom(4)
	s.startRound()
	s.toVoting()
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p2", "p3")
	_, _ = s.registry.SubmitVote(s.ctx, testCode, "p3", "p2")
	finished, err := s.registry.SubmitVote(s.ctx, testCode, "p4", "p2")
	s.Require().NoError(err)

	room, err := s.registry.ResetGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(model.StatusLobby, room.Status)
	s.Nil(room.Votes)
	s.Nil(room.EndTime)
	s.Equal(model.WinnerNone, room.Winner)
	s.Equal(s.scores(finished), s.scores(room))
	s.True(room.GetPlayer("p1").HasBeenHost)
	for _, p := range room.Players {
		s.Equal(model.RoleNone, p.Role)
	}

	_, err = s.storage.GetSecret(s.ctx, testCode)
	s.ErrorIs(err, model.ErrSecretNotFound)
}

func (s *RegistrySuite) TestResetGameRequiresRoomHost() {
	s.seatedRoom(4)
	s.startRound()
	_, _ = s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	_, _ = s.registry.EndQuestioning(s.ctx, testCode, "p1", true)

	_, err := s.registry.ResetGame(s.ctx, testCode, "p2")
	s.ErrorIs(err, model.ErrNotRoomHost)
}

func (s *RegistrySuite) TestResetGameOutsideResultFails() {
	s.seatedRoom(4)
	s.startRound()

	_, err := s.registry.ResetGame(s.ctx, testCode, "p1")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *RegistrySuite) TestNextRoundAfterResetRotatesHost() {
	s.seatedRoom(4)
	s.startRound()
	_, _ = s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	_, _ = s.registry.EndQuestioning(s.ctx, testCode, "p1", true)
	_, err := s.registry.ResetGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	// p1 already hosted, so eligible are p2, p3, p4
	s.random.QueueIntn(0, 0)
	room, _, err := s.registry.StartGame(s.ctx, testCode, "p1")
	s.Require().NoError(err)

	s.Equal(2, room.Round)
	s.Equal(model.RoleHost, room.RoleOf("p2"))
	s.Equal(3, s.random.IntnCalls[2])
}

// UpdateConfig tests

func (s *RegistrySuite) TestUpdateConfigMergesPatch() {
	s.seatedRoom(1)
	minutes := 5

	room, err := s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{TimerMinutes: &minutes})
	s.Require().NoError(err)

	s.Equal(5, room.Config.TimerMinutes)
	s.Equal(model.HostSelectionRoundRobin, room.Config.HostSelection)
}

func (s *RegistrySuite) TestUpdateConfigRejectsInvalidValues() {
	s.seatedRoom(1)
	zero := 0
	bogus := model.HostSelection("ALPHABETICAL")

	_, err := s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{TimerMinutes: &zero})
	s.ErrorIs(err, model.ErrInvalidConfig)
	_, err = s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{HostSelection: &bogus})
	s.ErrorIs(err, model.ErrInvalidConfig)

	room, _ := s.registry.GetRoom(s.ctx, testCode)
	s.Equal(model.DefaultRoomConfig(), room.Config)
}

func (s *RegistrySuite) TestUpdateConfigRequiresRoomHost() {
	s.seatedRoom(2)
	minutes := 5

	_, err := s.registry.UpdateConfig(s.ctx, testCode, "p2", model.ConfigPatch{TimerMinutes: &minutes})
	s.ErrorIs(err, model.ErrNotRoomHost)
}

func (s *RegistrySuite) TestUpdateConfigDuringQuestioningFails() {
	s.seatedRoom(4)
	s.startRound()
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)
	minutes := 9

	_, err = s.registry.UpdateConfig(s.ctx, testCode, "p1", model.ConfigPatch{TimerMinutes: &minutes})
	s.ErrorIs(err, model.ErrInvalidState)

	room, _ := s.registry.GetRoom(s.ctx, testCode)
	s.Equal(3, room.Config.TimerMinutes)
}

// Reveal tests

func (s *RegistrySuite) TestRevealInLobbyShowsNothing() {
	s.seatedRoom(4)

	view, err := s.registry.Reveal(s.ctx, testCode, "p2")
	s.Require().NoError(err)
	s.Equal(model.RoleNone, view.Role)
	s.Empty(view.Word)
}

func (s *RegistrySuite) TestRevealDuringWordSettingOnlyShowsHost() {
	s.seatedRoom(4)
	s.startRound()

	host, err := s.registry.Reveal(s.ctx, testCode, "p1")
	s.Require().NoError(err)
	s.Equal(model.RoleHost, host.Role)
	s.Empty(host.Word)

	insider, err := s.registry.Reveal(s.ctx, testCode, "p2")
	s.Require().NoError(err)
	s.Equal(model.RoleNone, insider.Role)
	s.Equal(model.StatusWordSetting, insider.Status)
}

func (s *RegistrySuite) TestRevealDuringQuestioning() {
	s.seatedRoom(4)
	s.startRound()
	_, err := s.registry.SetWord(s.ctx, testCode, "apple", "p1")
	s.Require().NoError(err)

	host, _ := s.registry.Reveal(s.ctx, testCode, "p1")
	s.Equal(model.RoleHost, host.Role)
	s.Equal("apple", host.Word)

	insider, _ := s.registry.Reveal(s.ctx, testCode, "p2")
	s.Equal(model.RoleInsider, insider.Role)
	s.Equal("apple", insider.Word)

	commoner, _ := s.registry.Reveal(s.ctx, testCode, "p3")
	s.Equal(model.RoleCommoner, commoner.Role)
	s.Empty(commoner.Word)
}

func (s *RegistrySuite) TestRevealRequiresSeat() {
	s.seatedRoom(4)

	_, err := s.registry.Reveal(s.ctx, testCode, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Concurrency

func (s *RegistrySuite) TestConcurrentJoinsAreSerialised() {
	s.seatedRoom(0)

	const n = 32
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.registry.JoinRoom(s.ctx, testCode, model.PlayerID(fmt.Sprintf("c%d", i)), "P")
			s.NoError(err)
		}()
	}
	wg.Wait()

	room, err := s.registry.GetRoom(s.ctx, testCode)
	s.Require().NoError(err)
	s.Len(room.Players, n)
	s.Equal(0, s.registry.locks.size())
}
