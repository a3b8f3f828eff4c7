package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique task key index that makes task derivation
// an upsert, plus the lookups the engine runs for every task.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	taskIdxs := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key.bookingId", Value: 1}, {Key: "key.entryIndex", Value: 1}, {Key: "key.type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_task_key"),
		},
		{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "branch", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index().SetName("branch_date"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index().SetName("booking_date"),
		},
	}
	if _, err := database.Collection(TasksCollection).Indexes().CreateMany(ctx, taskIdxs); err != nil {
		return fmt.Errorf("creating task indexes: %w", err)
	}

	for _, name := range []string{BookingsCollection, StaffCollection, EquipmentCollection} {
		idxs := []mongo.IndexModel{
			{
				Keys:    bson.M{"id": 1},
				Options: options.Index().SetUnique(true).SetName("unique_id"),
			},
		}
		if name != BookingsCollection {
			idxs = append(idxs, mongo.IndexModel{
				Keys:    bson.M{"branch": 1},
				Options: options.Index().SetName("branch"),
			})
		}
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, idxs); err != nil {
			return fmt.Errorf("creating %s indexes: %w", name, err)
		}
	}
	return nil
}
