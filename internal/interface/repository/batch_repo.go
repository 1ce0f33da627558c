// internal/interface/repository/batch_repo.go
package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBatchRepository implements the BatchRepository interface
type MongoBatchRepository struct {
	collection *mongo.Collection
}

// NewMongoBatchRepository creates a new MongoDB observation-batch repository
func NewMongoBatchRepository(db *mongo.Database) repository.BatchRepository {
	collection := db.Collection("observationBatches")

	ctx := context.Background()

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"processStatus": 1},
	}
	receivedAtIndex := mongo.IndexModel{
		Keys: bson.M{"receivedAt": -1},
	}
	// Compound index for draining pending batches in arrival order
	pendingIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "processStatus", Value: 1},
			{Key: "receivedAt", Value: 1},
		},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		statusIndex,
		receivedAtIndex,
		pendingIndex,
	})

	return &MongoBatchRepository{
		collection: collection,
	}
}

// Save journals a reported batch
func (r *MongoBatchRepository) Save(ctx context.Context, batch *entity.ObservationBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.ProcessStatus == "" {
		batch.ProcessStatus = entity.BatchStatusPending
	}
	if batch.ReceivedAt.IsZero() {
		batch.ReceivedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, batch)
	return err
}

// FindPending returns unprocessed batches, oldest first
func (r *MongoBatchRepository) FindPending(ctx context.Context, limit int) ([]*entity.ObservationBatch, error) {
	filter := bson.M{"processStatus": entity.BatchStatusPending}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var batches []*entity.ObservationBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// MarkProcessed records the terminal status and per-batch counters
func (r *MongoBatchRepository) MarkProcessed(ctx context.Context, id, status, errorDetail string, newFlights, updatedPrices, alertsFired int) error {
	update := bson.M{
		"$set": bson.M{
			"processStatus": status,
			"processedAt":   time.Now(),
			"errorDetail":   errorDetail,
			"newFlights":    newFlights,
			"updatedPrices": updatedPrices,
			"alertsFired":   alertsFired,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
