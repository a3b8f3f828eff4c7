package db

import (
	"context"
	"fmt"
	"log"

	"studioerp/models"
	"studioerp/skills"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrateStaffRoles fills the role tag of staff records that lack one from
// their designation. Records whose designation names no known role are left
// untouched.
func MigrateStaffRoles(ctx context.Context, database *mongo.Database) (int, error) {
	coll := database.Collection(StaffCollection)
	cur, err := coll.Find(ctx, missingRoleFilter())
	if err != nil {
		return 0, fmt.Errorf("finding untagged staff: %w", err)
	}
	var staff []models.StaffCandidate
	if err := cur.All(ctx, &staff); err != nil {
		return 0, fmt.Errorf("decoding untagged staff: %w", err)
	}

	writes := roleUpdates(staff)
	if len(writes) == 0 {
		return 0, nil
	}
	res, err := coll.BulkWrite(ctx, writes)
	if err != nil {
		return 0, fmt.Errorf("tagging staff roles: %w", err)
	}
	log.Printf("[Mongo] tagged %d staff records with roles", res.ModifiedCount)
	return int(res.ModifiedCount), nil
}

func roleUpdates(staff []models.StaffCandidate) []mongo.WriteModel {
	var writes []mongo.WriteModel
	for _, c := range staff {
		role := skills.InferRole(c.Designation)
		if role == "" {
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": c.ID}).
			SetUpdate(bson.M{"$set": bson.M{"role": role}}))
	}
	return writes
}
