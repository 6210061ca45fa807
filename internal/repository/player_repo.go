package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doodlechain/internal/model"
)

type PlayerRepo interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id string) (*model.Player, error)
	// ListByRoom returns players in stable join order.
	ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error)
	Update(ctx context.Context, player *model.Player) error
	Delete(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomCode string) error
	CountByRoom(ctx context.Context, roomCode string) (int, error)
}

type playerRepo struct {
	collection *mongo.Collection
}

func NewPlayerRepo(db *mongo.Database) PlayerRepo {
	return &playerRepo{collection: db.Collection("players")}
}

func (r *playerRepo) Create(ctx context.Context, player *model.Player) error {
	_, err := r.collection.InsertOne(ctx, player)
	return err
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepo) ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinOrder", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var players []*model.Player
	if err = cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepo) Update(ctx context.Context, player *model.Player) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": player.ID}, player)
	return err
}

func (r *playerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *playerRepo) DeleteByRoom(ctx context.Context, roomCode string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomCode": roomCode})
	return err
}

func (r *playerRepo) CountByRoom(ctx context.Context, roomCode string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"roomCode": roomCode})
	return int(n), err
}
