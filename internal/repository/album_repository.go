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

var ErrAlbumNotFound = errors.New("album not found")

type AlbumRepository struct {
	coll *mongo.Collection
}

func NewAlbumRepository(db *mongo.Database) *AlbumRepository {
	return &AlbumRepository{coll: db.Collection("best_albums")}
}

func (r *AlbumRepository) FindAll(ctx context.Context) ([]models.BestAlbum, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "releaseDate", Value: -1}}))
	if err != nil {
		return nil, err
	}

	albums := []models.BestAlbum{}
	if err := cursor.All(ctx, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *AlbumRepository) GetByID(ctx context.Context, id string) (models.BestAlbum, error) {
	var album models.BestAlbum
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&album); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BestAlbum{}, ErrAlbumNotFound
		}
		return models.BestAlbum{}, err
	}
	return album, nil
}

func (r *AlbumRepository) Create(ctx context.Context, album models.BestAlbum) (models.BestAlbum, error) {
	album.CreatedAt = time.Now()
	album.UpdatedAt = album.CreatedAt

	if _, err := r.coll.InsertOne(ctx, album); err != nil {
		return models.BestAlbum{}, err
	}
	return album, nil
}

func (r *AlbumRepository) Update(ctx context.Context, album models.BestAlbum) (models.BestAlbum, error) {
	update := bson.M{"$set": bson.M{
		"title":       album.Title,
		"artist":      album.Artist,
		"coverUrl":    album.CoverURL,
		"releaseDate": album.ReleaseDate,
		"updatedAt":   time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.BestAlbum
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": album.ID}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BestAlbum{}, ErrAlbumNotFound
		}
		return models.BestAlbum{}, err
	}
	return updated, nil
}

func (r *AlbumRepository) Delete(ctx context.Context, id string) (models.BestAlbum, error) {
	var deleted models.BestAlbum
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BestAlbum{}, ErrAlbumNotFound
		}
		return models.BestAlbum{}, err
	}
	return deleted, nil
}

func (r *AlbumRepository) BatchDelete(ctx context.Context, ids []string) (models.BatchResult, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return models.BatchResult{}, err
	}
	return models.BatchResult{IDs: ids, AffectedCount: res.DeletedCount}, nil
}
