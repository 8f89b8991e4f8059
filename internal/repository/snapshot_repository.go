package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/WooodHead/blog-be-next/internal/models"
)

type SnapshotRepository struct {
	coll *mongo.Collection
}

func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{coll: db.Collection("usage_snapshots")}
}

func (r *SnapshotRepository) Insert(ctx context.Context, snapshot models.UsageSnapshot) error {
	_, err := r.coll.InsertOne(ctx, snapshot)
	return err
}

func (r *SnapshotRepository) Recent(ctx context.Context, limit int64) ([]models.UsageSnapshot, error) {
	cursor, err := r.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}

	snapshots := []models.UsageSnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
