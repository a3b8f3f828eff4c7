package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"studioerp/models"

	"github.com/redis/go-redis/v9"
)

const AssignmentChannel = "assignment-events"

const (
	EventAssigned = "tasks.assigned"
	EventSkipped  = "task.skipped"
)

// Event is what downstream notifiers and the booking editor receive.
type Event struct {
	Type        string              `json:"type"`
	BookingID   string              `json:"bookingId"`
	Branch      string              `json:"branch,omitempty"`
	Client      string              `json:"client,omitempty"`
	TaskID      string              `json:"taskId,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Assignments []models.Assignment `json:"assignments,omitempty"`
	Timestamp   int64               `json:"timestamp"`
}

// Publisher emits assignment events on Redis pub/sub.
type Publisher struct {
	conn redis.UniversalClient
}

func NewPublisher(conn redis.UniversalClient) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) NotifyAssignments(ctx context.Context, assignments []models.Assignment, booking *models.Booking) error {
	return p.Emit(ctx, Event{
		Type:        EventAssigned,
		BookingID:   booking.ID,
		Branch:      booking.Branch,
		Client:      booking.Client,
		Assignments: assignments,
	})
}

func (p *Publisher) NotifySkipped(ctx context.Context, task *models.Task, reason string) error {
	return p.Emit(ctx, Event{
		Type:      EventSkipped,
		BookingID: task.BookingID,
		Branch:    task.Branch,
		TaskID:    task.ID,
		Reason:    reason,
	})
}

func (p *Publisher) Emit(ctx context.Context, e Event) error {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", e.Type, err)
	}
	if err := p.conn.Publish(ctx, AssignmentChannel, data).Err(); err != nil {
		return fmt.Errorf("publishing %s event: %w", e.Type, err)
	}
	log.Printf("[Emit] %s for booking %s published to '%s'", e.Type, e.BookingID, AssignmentChannel)
	return nil
}

// StartRelay forwards every event on the channel to handle until ctx ends.
// It lets every process push events to the websockets it holds.
func StartRelay(ctx context.Context, conn redis.UniversalClient, handle func(Event)) {
	sub := conn.Subscribe(ctx, AssignmentChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[Relay] Listening for assignment events...")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("[Relay] Failed to parse event: %v", err)
				continue
			}
			handle(e)
		}
	}
}
