package db

import (
	"studioerp/assign"
	"studioerp/models"

	"go.mongodb.org/mongo-driver/bson"
)

var notDeleted = bson.M{"$ne": true}

func bookingFilter(id string) bson.M {
	return bson.M{"id": id, "deleted": notDeleted}
}

func staffFilter(branch string) bson.M {
	return bson.M{"branch": branch, "active": true, "deleted": notDeleted}
}

func equipmentFilter(branch string) bson.M {
	return bson.M{"branch": branch, "deleted": notDeleted}
}

func taskKeyFilter(k models.TaskKey) bson.M {
	return bson.M{
		"key.bookingId":  k.BookingID,
		"key.entryIndex": k.EntryIndex,
		"key.type":       k.Type,
	}
}

// taskQueryFilter matches the tasks whose assignments can block a window on
// q.Date. Finished and cancelled tasks release their resources.
func taskQueryFilter(q assign.TaskQuery) bson.M {
	f := bson.M{
		"branch":        q.Branch,
		"scheduledDate": q.Date,
		"status": bson.M{"$nin": bson.A{
			models.StatusCompleted,
			models.StatusCancelled,
		}},
	}
	if q.BookingID != "" {
		f["bookingId"] = q.BookingID
	}
	return f
}

func missingRoleFilter() bson.M {
	return bson.M{
		"deleted": notDeleted,
		"$or": bson.A{
			bson.M{"role": bson.M{"$exists": false}},
			bson.M{"role": ""},
		},
	}
}
