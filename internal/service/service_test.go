package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"doodlechain/internal/cache"
	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/notify"
)

// In-memory fakes shared by the service tests.

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomRepo(rooms ...*model.Room) *fakeRoomRepo {
	m := make(map[string]*model.Room, len(rooms))
	for _, r := range rooms {
		m[r.Code] = r
	}
	return &fakeRoomRepo{rooms: m}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.Code] = room
	return nil
}

func (f *fakeRoomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[code]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.Code] = room
	return nil
}

func (f *fakeRoomRepo) UpdateIf(ctx context.Context, room *model.Room, expectStatus model.RoomStatus, expectRound int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rooms[room.Code]
	if !ok || cur.Status != expectStatus || cur.CurrentRound != expectRound {
		return false, nil
	}
	f.rooms[room.Code] = room
	return true, nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, code)
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players []*model.Player
}

func (f *fakePlayerRepo) Create(ctx context.Context, p *model.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players = append(f.players, p)
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerRepo) ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Player
	for _, p := range f.players {
		if p.RoomCode == roomCode {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) Update(ctx context.Context, p *model.Player) error { return nil }

func (f *fakePlayerRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.players {
		if p.ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlayerRepo) DeleteByRoom(ctx context.Context, roomCode string) error { return nil }

func (f *fakePlayerRepo) CountByRoom(ctx context.Context, roomCode string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.players {
		if p.RoomCode == roomCode {
			n++
		}
	}
	return n, nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs []*model.Submission
	next int
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	s.ID = fmt.Sprintf("sub-%d", f.next)
	s.CreatedAt = time.Now()
	f.subs = append(f.subs, s)
	return nil
}

func (f *fakeSubmissionRepo) ListByRoom(ctx context.Context, roomCode string) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Submission, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeSubmissionRepo) ListByChain(ctx context.Context, roomCode, chainID string) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Submission
	for _, s := range f.subs {
		if s.ChainID == chainID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetBySlot(ctx context.Context, roomCode, chainID string, sequence int) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.ChainID == chainID && s.Sequence == sequence {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) DeleteByRoom(ctx context.Context, roomCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = nil
	return nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes []*model.Vote
}

func (f *fakeVoteRepo) Create(ctx context.Context, v *model.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.CreatedAt = time.Now()
	f.votes = append(f.votes, v)
	return nil
}

func (f *fakeVoteRepo) ListByRound(ctx context.Context, roomCode string, round int) ([]*model.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Vote
	for _, v := range f.votes {
		if v.Round == round {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteRepo) GetByVoter(ctx context.Context, roomCode string, round int, voterID string) (*model.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.Round == round && v.VoterID == voterID {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVoteRepo) DeleteByRoom(ctx context.Context, roomCode string) error { return nil }

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []*model.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Message, len(f.msgs))
	copy(out, f.msgs)
	return out, nil
}

func (f *fakeMessageRepo) DeleteByRoom(ctx context.Context, roomCode string) error { return nil }

type fakeRoomCache struct{}

func (fakeRoomCache) Set(ctx context.Context, room *model.Room) error          { return nil }
func (fakeRoomCache) Get(ctx context.Context, code string) (*model.Room, error) { return nil, nil }
func (fakeRoomCache) Delete(ctx context.Context, code string) error            { return nil }
func (fakeRoomCache) Exists(ctx context.Context, code string) (bool, error)    { return false, nil }

type fakeScoreCache struct {
	mu   sync.Mutex
	best map[string]int
}

func newFakeScoreCache() *fakeScoreCache { return &fakeScoreCache{best: map[string]int{}} }

func (f *fakeScoreCache) UpdateBest(ctx context.Context, roomCode, playerID string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if score > f.best[playerID] {
		f.best[playerID] = score
	}
	return nil
}

func (f *fakeScoreCache) GetTop(ctx context.Context, roomCode string, limit int) ([]cache.ScoreEntry, error) {
	return nil, nil
}

func (f *fakeScoreCache) Delete(ctx context.Context, roomCode string) error { return nil }

type fakeNotifier struct {
	mu        sync.Mutex
	published []notify.Event
}

func (f *fakeNotifier) Publish(ctx context.Context, ev notify.Event) error {
	f.mu.Lock()
	f.published = append(f.published, ev)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) Subscribe(ctx context.Context, roomCode string) (<-chan notify.Event, func()) {
	ch := make(chan notify.Event)
	return ch, func() {}
}

// testHarness bundles the fakes behind one service wiring
type testHarness struct {
	rooms    *fakeRoomRepo
	players  *fakePlayerRepo
	subs     *fakeSubmissionRepo
	votes    *fakeVoteRepo
	messages *fakeMessageRepo
	scores   *fakeScoreCache
	notifier *fakeNotifier
	manager  *game.Manager
}

func newHarness(room *model.Room, players ...*model.Player) *testHarness {
	h := &testHarness{
		rooms:    newFakeRoomRepo(),
		players:  &fakePlayerRepo{},
		subs:     &fakeSubmissionRepo{},
		votes:    &fakeVoteRepo{},
		messages: &fakeMessageRepo{},
		scores:   newFakeScoreCache(),
		notifier: &fakeNotifier{},
	}
	if room != nil {
		h.rooms.Create(context.Background(), room)
	}
	for _, p := range players {
		h.players.Create(context.Background(), p)
	}
	h.manager = game.NewManager(game.ControllerDeps{
		Rooms:        h.rooms,
		Players:      h.players,
		Submissions:  h.subs,
		Votes:        h.votes,
		RoomCache:    fakeRoomCache{},
		Notifier:     h.notifier,
		PollInterval: time.Hour, // tests drive state directly
	})
	return h
}

func (h *testHarness) submissionService() *SubmissionService {
	return NewSubmissionService(h.rooms, h.players, h.subs, h.votes, h.scores, h.notifier, h.manager)
}

func (h *testHarness) voteService() *VoteService {
	return NewVoteService(h.rooms, h.players, h.votes, h.notifier, h.manager)
}

func (h *testHarness) roomService() *RoomService {
	return NewRoomService(h.rooms, h.players, h.subs, h.votes, h.messages, fakeRoomCache{}, h.scores, h.notifier, h.manager, NewAuthService("test-secret"), 6)
}

func (h *testHarness) playerService() *PlayerService {
	return NewPlayerService(h.rooms, h.players, fakeRoomCache{}, h.notifier, NewAuthService("test-secret"))
}

func testRoom(mode model.GameMode, status model.RoomStatus, round, maxRounds int) *model.Room {
	return &model.Room{
		Code:         "GAME42",
		Status:       status,
		GameMode:     mode,
		HostPlayerID: "p0",
		CurrentRound: round,
		MaxRounds:    maxRounds,
		Settings:     model.RoomSettings{MaxPlayers: 12, RoundTimeSeconds: 60},
		PhaseStartAt: time.Now(),
	}
}

func testPlayers(n int) []*model.Player {
	out := make([]*model.Player, n)
	for i := 0; i < n; i++ {
		out[i] = &model.Player{
			ID:        fmt.Sprintf("p%d", i),
			RoomCode:  "GAME42",
			Name:      fmt.Sprintf("player-%d", i),
			JoinOrder: i,
			IsHost:    i == 0,
			IsReady:   true,
		}
	}
	return out
}

func rawContent(s string) json.RawMessage { return json.RawMessage(s) }
