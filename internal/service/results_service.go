package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"doodlechain/internal/cache"
	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/repository"
)

// GameResults is the end-of-game view: every chain end-to-end, plus the
// mode's outcome (vote tally, score ranking, or battle winner).
type GameResults struct {
	Room      *model.Room        `json:"room"`
	Players   []*model.Player    `json:"players"`
	Chains    []*model.Chain     `json:"chains"`
	VoteTally map[string]int     `json:"voteTally,omitempty"`
	Ranking   []game.PlayerScore `json:"ranking,omitempty"`
	WinnerID  string             `json:"winnerId,omitempty"`
}

// ResultsService assembles results from stored records; chains are derived
// at read time, never stored.
type ResultsService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	submissions repository.SubmissionRepo
	votes       repository.VoteRepo
	scores      cache.ScoreCache
}

func NewResultsService(
	rooms repository.RoomRepo,
	players repository.PlayerRepo,
	submissions repository.SubmissionRepo,
	votes repository.VoteRepo,
	scores cache.ScoreCache,
) *ResultsService {
	return &ResultsService{
		rooms:       rooms,
		players:     players,
		submissions: submissions,
		votes:       votes,
		scores:      scores,
	}
}

// Results builds the end-of-game view for a room
func (s *ResultsService) Results(ctx context.Context, code string) (*GameResults, error) {
	code = NormalizeCode(code)
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.Status != model.RoomStatusResults && room.Status != model.RoomStatusFinished {
		return nil, ErrWrongPhase
	}

	players, err := s.players.ListByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	out := &GameResults{
		Room:    room,
		Players: players,
		Chains:  game.ChainsOf(players, game.Dedupe(subs)),
	}

	cfg, _ := model.ConfigFor(room.GameMode)
	switch room.GameMode {
	case model.ModePixelPerfect:
		// Ranking keeps each player's best submission, so no slot dedupe:
		// that would drop a better duplicate in favor of the earliest one.
		out.Ranking = s.pixelRanking(ctx, room, players, subs)
	case model.ModeBattleRoyale:
		out.WinnerID = room.Mode.WinnerID
		votes, err := s.votes.ListByRound(ctx, code, room.CurrentRound)
		if err != nil {
			return nil, err
		}
		out.VoteTally = game.TallyVotes(votes, room.CurrentRound)
	default:
		if cfg.SupportsVoting {
			votes, err := s.votes.ListByRound(ctx, code, room.CurrentRound)
			if err != nil {
				return nil, err
			}
			out.VoteTally = game.TallyVotes(votes, room.CurrentRound)
		}
	}
	return out, nil
}

func (s *ResultsService) pixelRanking(ctx context.Context, room *model.Room, players []*model.Player, subs []*model.Submission) []game.PlayerScore {
	top, err := s.scores.GetTop(ctx, room.Code, len(players))
	if err == nil && len(top) == len(players) {
		out := make([]game.PlayerScore, len(top))
		for i, e := range top {
			out[i] = game.PlayerScore{PlayerID: e.PlayerID, Score: e.Score}
		}
		return out
	}
	if err != nil {
		logrus.WithError(err).WithField("room", room.Code).Warn("score cache unavailable, recomputing")
	}
	// Cache incomplete (expired or a player never reached it): recompute
	st := &game.State{Room: room, Players: players, Submissions: subs}
	return game.PixelRanking(st)
}
