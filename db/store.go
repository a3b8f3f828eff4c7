package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studioerp/assign"
	"studioerp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps bookings, directories and tasks in MongoDB. Assignments live
// inside their task document.
type Store struct {
	bookings  *mongo.Collection
	tasks     *mongo.Collection
	staff     *mongo.Collection
	equipment *mongo.Collection
	timeout   time.Duration
}

var _ assign.Store = (*Store)(nil)

func NewStore(database *mongo.Database, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{
		bookings:  database.Collection(BookingsCollection),
		tasks:     database.Collection(TasksCollection),
		staff:     database.Collection(StaffCollection),
		equipment: database.Collection(EquipmentCollection),
		timeout:   timeout,
	}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", what, id, assign.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b models.Booking
	if err := s.bookings.FindOne(ctx, bookingFilter(id)).Decode(&b); err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

func (s *Store) ListStaff(ctx context.Context, branch string) ([]models.StaffCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.staff.Find(ctx, staffFilter(branch), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.StaffCandidate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListEquipment(ctx context.Context, branch string) ([]models.EquipmentCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.equipment.Find(ctx, equipmentFilter(branch), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.EquipmentCandidate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListTasks(ctx context.Context, bookingID string) ([]models.Task, error) {
	return s.findTasks(ctx, bson.M{"bookingId": bookingID})
}

func (s *Store) TasksOn(ctx context.Context, q assign.TaskQuery) ([]models.Task, error) {
	return s.findTasks(ctx, taskQueryFilter(q))
}

func (s *Store) findTasks(ctx context.Context, filter bson.M) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.tasks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var t models.Task
	if err := s.tasks.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// UpsertTask relies on the unique task key index: a concurrent insert of the
// same key loses the race and reads the winner back.
func (s *Store) UpsertTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := taskKeyFilter(t.Key)
	_, err := s.tasks.UpdateOne(ctx, filter, bson.M{"$setOnInsert": t}, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}
	var stored models.Task
	if err := s.tasks.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, notFound(err, "task", t.ID)
	}
	return &stored, nil
}

func (s *Store) SaveTask(ctx context.Context, t *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.tasks.ReplaceOne(ctx, bson.M{"id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("task %s: %w", t.ID, assign.ErrNotFound)
	}
	return nil
}
