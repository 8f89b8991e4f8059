package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/WooodHead/blog-be-next/internal/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository struct {
	coll *mongo.Collection
}

func NewPlayerRepository(db *mongo.Database) *PlayerRepository {
	return &PlayerRepository{coll: db.Collection("players")}
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]models.Player, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	players := []models.Player{}
	if err := cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (models.Player, error) {
	var player models.Player
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Player{}, ErrPlayerNotFound
		}
		return models.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) Create(ctx context.Context, player models.Player) (models.Player, error) {
	player.CreatedAt = time.Now()
	player.UpdatedAt = player.CreatedAt

	if _, err := r.coll.InsertOne(ctx, player); err != nil {
		return models.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) Update(ctx context.Context, player models.Player) (models.Player, error) {
	update := bson.M{"$set": bson.M{
		"title":        player.Title,
		"artist":       player.Artist,
		"coverUrl":     player.CoverURL,
		"musicFileUrl": player.MusicURL,
		"lrcUrl":       player.LrcURL,
		"isPublic":     player.IsPublic,
		"updatedAt":    time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Player
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": player.ID}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Player{}, ErrPlayerNotFound
		}
		return models.Player{}, err
	}
	return updated, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) (models.Player, error) {
	var deleted models.Player
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Player{}, ErrPlayerNotFound
		}
		return models.Player{}, err
	}
	return deleted, nil
}

func (r *PlayerRepository) BatchDelete(ctx context.Context, ids []string) (models.BatchResult, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return models.BatchResult{}, err
	}
	return models.BatchResult{IDs: ids, AffectedCount: res.DeletedCount}, nil
}

// BatchOffline flips the listed tracks off the public playlist.
func (r *PlayerRepository) BatchOffline(ctx context.Context, ids []string) (models.BatchResult, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"isPublic": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return models.BatchResult{}, err
	}
	return models.BatchResult{IDs: ids, AffectedCount: res.ModifiedCount}, nil
}
