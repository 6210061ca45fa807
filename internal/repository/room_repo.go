package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"doodlechain/internal/model"
)

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByCode(ctx context.Context, code string) (*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	// UpdateIf replaces the room only if it is still at the expected
	// status and round. Returns false when another writer advanced first.
	UpdateIf(ctx context.Context, room *model.Room, expectStatus model.RoomStatus, expectRound int) (bool, error)
	Delete(ctx context.Context, code string) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{collection: db.Collection("rooms")}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

func (r *roomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // room not found
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"code": room.Code}, room)
	return err
}

func (r *roomRepo) UpdateIf(ctx context.Context, room *model.Room, expectStatus model.RoomStatus, expectRound int) (bool, error) {
	filter := bson.M{
		"code":         room.Code,
		"status":       expectStatus,
		"currentRound": expectRound,
	}
	res, err := r.collection.ReplaceOne(ctx, filter, room)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *roomRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	return err
}
