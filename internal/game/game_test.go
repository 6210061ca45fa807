package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"doodlechain/internal/model"
	"doodlechain/internal/notify"
)

// Shared fixtures for the coordination tests.

func makePlayers(n int) []*model.Player {
	out := make([]*model.Player, n)
	for i := 0; i < n; i++ {
		out[i] = &model.Player{
			ID:        fmt.Sprintf("p%d", i),
			RoomCode:  "TEST",
			Name:      fmt.Sprintf("player-%d", i),
			JoinOrder: i,
			IsHost:    i == 0,
		}
	}
	return out
}

func makeRoom(mode model.GameMode, status model.RoomStatus, round, maxRounds int) *model.Room {
	return &model.Room{
		Code:         "TEST",
		Status:       status,
		GameMode:     mode,
		CurrentRound: round,
		MaxRounds:    maxRounds,
		Settings:     model.RoomSettings{MaxPlayers: 12, RoundTimeSeconds: 60},
		PhaseStartAt: time.Now(),
	}
}

func makeSub(playerID, chainID string, seq int, kind model.SubmissionKind) *model.Submission {
	return &model.Submission{
		ID:        fmt.Sprintf("s-%s-%d", chainID, seq),
		RoomCode:  "TEST",
		PlayerID:  playerID,
		ChainID:   chainID,
		Sequence:  seq,
		Kind:      kind,
		Content:   json.RawMessage(`{}`),
		CreatedAt: time.Now(),
	}
}

// fakeStore is an in-memory implementation of every repository the
// controller touches, so controller behavior can be tested without Mongo.
type fakeStore struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
	subs  []*model.Submission
	plrs  []*model.Player
	votes []*model.Vote
}

func newFakeStore(room *model.Room, players []*model.Player) *fakeStore {
	rooms := map[string]*model.Room{}
	if room != nil {
		rooms[room.Code] = room
	}
	return &fakeStore{rooms: rooms, plrs: players}
}

func cloneRoom(r *model.Room) *model.Room {
	c := *r
	return &c
}

func (f *fakeStore) Create(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.Code] = cloneRoom(room)
	return nil
}

func (f *fakeStore) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[code]
	if !ok {
		return nil, nil
	}
	return cloneRoom(r), nil
}

func (f *fakeStore) Update(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.Code] = cloneRoom(room)
	return nil
}

func (f *fakeStore) UpdateIf(ctx context.Context, room *model.Room, expectStatus model.RoomStatus, expectRound int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rooms[room.Code]
	if !ok || cur.Status != expectStatus || cur.CurrentRound != expectRound {
		return false, nil
	}
	f.rooms[room.Code] = cloneRoom(room)
	return true, nil
}

func (f *fakeStore) Delete(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, code)
	return nil
}

// PlayerRepo

func (f *fakeStore) CreatePlayer(ctx context.Context, p *model.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plrs = append(f.plrs, p)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plrs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Player, len(f.plrs))
	copy(out, f.plrs)
	return out, nil
}

func (f *fakeStore) UpdatePlayer(ctx context.Context, p *model.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, old := range f.plrs {
		if old.ID == p.ID {
			f.plrs[i] = p
		}
	}
	return nil
}

func (f *fakeStore) DeletePlayer(ctx context.Context, id string) error { return nil }

func (f *fakeStore) DeleteByRoom(ctx context.Context, roomCode string) error { return nil }

func (f *fakeStore) CountByRoom(ctx context.Context, roomCode string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plrs), nil
}

// SubmissionRepo

func (f *fakeStore) CreateSubmission(ctx context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, s)
	return nil
}

func (f *fakeStore) ListSubsByRoom(ctx context.Context, roomCode string) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Submission, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeStore) ListByChain(ctx context.Context, roomCode, chainID string) ([]*model.Submission, error) {
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

func (f *fakeStore) GetBySlot(ctx context.Context, roomCode, chainID string, sequence int) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *model.Submission
	for _, s := range f.subs {
		if s.ChainID == chainID && s.Sequence == sequence {
			if found == nil || s.CreatedAt.Before(found.CreatedAt) {
				found = s
			}
		}
	}
	return found, nil
}

// VoteRepo

func (f *fakeStore) CreateVote(ctx context.Context, v *model.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.votes = append(f.votes, v)
	return nil
}

func (f *fakeStore) ListByRound(ctx context.Context, roomCode string, round int) ([]*model.Vote, error) {
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

func (f *fakeStore) GetByVoter(ctx context.Context, roomCode string, round int, voterID string) (*model.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.Round == round && v.VoterID == voterID {
			return v, nil
		}
	}
	return nil, nil
}

// Interface adapters: fakeStore backs several repository interfaces whose
// method names collide (Create, ListByRoom), so thin views disambiguate.

type fakeRooms struct{ *fakeStore }

type fakePlayers struct{ *fakeStore }

func (f fakePlayers) Create(ctx context.Context, p *model.Player) error {
	return f.CreatePlayer(ctx, p)
}

func (f fakePlayers) Update(ctx context.Context, p *model.Player) error {
	return f.UpdatePlayer(ctx, p)
}

func (f fakePlayers) Delete(ctx context.Context, id string) error {
	return f.DeletePlayer(ctx, id)
}

type fakeSubs struct{ *fakeStore }

func (f fakeSubs) Create(ctx context.Context, s *model.Submission) error {
	return f.CreateSubmission(ctx, s)
}

func (f fakeSubs) ListByRoom(ctx context.Context, roomCode string) ([]*model.Submission, error) {
	return f.ListSubsByRoom(ctx, roomCode)
}

type fakeVotes struct{ *fakeStore }

func (f fakeVotes) Create(ctx context.Context, v *model.Vote) error {
	return f.CreateVote(ctx, v)
}

// fakeRoomCache is a no-op room cache
type fakeRoomCache struct{}

func (fakeRoomCache) Set(ctx context.Context, room *model.Room) error { return nil }

func (fakeRoomCache) Get(ctx context.Context, code string) (*model.Room, error) {
	return nil, nil
}

func (fakeRoomCache) Delete(ctx context.Context, code string) error { return nil }

func (fakeRoomCache) Exists(ctx context.Context, code string) (bool, error) { return false, nil }

// fakeNotifier records published events and feeds subscribers manually
type fakeNotifier struct {
	mu        sync.Mutex
	published []notify.Event
	ch        chan notify.Event
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notify.Event, 64)}
}

func (f *fakeNotifier) Publish(ctx context.Context, ev notify.Event) error {
	f.mu.Lock()
	f.published = append(f.published, ev)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) Subscribe(ctx context.Context, roomCode string) (<-chan notify.Event, func()) {
	return f.ch, func() {}
}

func (f *fakeNotifier) emit(ev notify.Event) { f.ch <- ev }

// fakeBroadcaster records WebSocket pushes
type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeBroadcaster) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	f.mu.Lock()
	f.sent = append(f.sent, msgType)
	f.mu.Unlock()
}

func (f *fakeBroadcaster) BroadcastToPlayer(roomCode, playerID string, msgType string, payload interface{}) {
	f.mu.Lock()
	f.sent = append(f.sent, msgType+":"+playerID)
	f.mu.Unlock()
}

func (f *fakeBroadcaster) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

func testDeps(store *fakeStore, notifier *fakeNotifier, bc *fakeBroadcaster) ControllerDeps {
	return ControllerDeps{
		Rooms:        fakeRooms{store},
		Players:      fakePlayers{store},
		Submissions:  fakeSubs{store},
		Votes:        fakeVotes{store},
		RoomCache:    fakeRoomCache{},
		Notifier:     notifier,
		Broadcaster:  bc,
		PollInterval: 50 * time.Millisecond,
	}
}
