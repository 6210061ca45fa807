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

type MessageRepo interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Message, error)
	DeleteByRoom(ctx context.Context, roomCode string) error
}

type messageRepo struct {
	collection *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepo{collection: db.Collection("messages")}
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

func (r *messageRepo) ListByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []*model.Message
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepo) DeleteByRoom(ctx context.Context, roomCode string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomCode": roomCode})
	return err
}
