package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doodlechain/internal/model"
)

type SubmissionRepo interface {
	Create(ctx context.Context, sub *model.Submission) error
	ListByRoom(ctx context.Context, roomCode string) ([]*model.Submission, error)
	ListByChain(ctx context.Context, roomCode, chainID string) ([]*model.Submission, error)
	// GetBySlot returns the earliest submission at (chainId, sequence),
	// or nil when the slot is empty.
	GetBySlot(ctx context.Context, roomCode, chainID string, sequence int) (*model.Submission, error)
	DeleteByRoom(ctx context.Context, roomCode string) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{collection: db.Collection("submissions")}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if sub.ID == "" {
		sub.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, sub)
	return err
}

func (r *submissionRepo) ListByRoom(ctx context.Context, roomCode string) ([]*model.Submission, error) {
	return r.list(ctx, bson.M{"roomCode": roomCode})
}

func (r *submissionRepo) ListByChain(ctx context.Context, roomCode, chainID string) ([]*model.Submission, error) {
	return r.list(ctx, bson.M{"roomCode": roomCode, "chainId": chainID})
}

func (r *submissionRepo) GetBySlot(ctx context.Context, roomCode, chainID string, sequence int) (*model.Submission, error) {
	filter := bson.M{"roomCode": roomCode, "chainId": chainID, "sequence": sequence}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var sub model.Submission
	err := r.collection.FindOne(ctx, filter, opts).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) DeleteByRoom(ctx context.Context, roomCode string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomCode": roomCode})
	return err
}

func (r *submissionRepo) list(ctx context.Context, filter bson.M) ([]*model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*model.Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
