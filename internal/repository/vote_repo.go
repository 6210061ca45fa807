package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"doodlechain/internal/model"
)

type VoteRepo interface {
	Create(ctx context.Context, vote *model.Vote) error
	ListByRound(ctx context.Context, roomCode string, round int) ([]*model.Vote, error)
	// GetByVoter returns the voter's existing vote for a round, or nil.
	GetByVoter(ctx context.Context, roomCode string, round int, voterID string) (*model.Vote, error)
	DeleteByRoom(ctx context.Context, roomCode string) error
}

type voteRepo struct {
	collection *mongo.Collection
}

func NewVoteRepo(db *mongo.Database) VoteRepo {
	return &voteRepo{collection: db.Collection("votes")}
}

func (r *voteRepo) Create(ctx context.Context, vote *model.Vote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}
	if vote.ID == "" {
		vote.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, vote)
	return err
}

func (r *voteRepo) ListByRound(ctx context.Context, roomCode string, round int) ([]*model.Vote, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode, "round": round})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var votes []*model.Vote
	if err = cursor.All(ctx, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepo) GetByVoter(ctx context.Context, roomCode string, round int, voterID string) (*model.Vote, error) {
	filter := bson.M{"roomCode": roomCode, "round": round, "voterId": voterID}

	var vote model.Vote
	err := r.collection.FindOne(ctx, filter).Decode(&vote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepo) DeleteByRoom(ctx context.Context, roomCode string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomCode": roomCode})
	return err
}
