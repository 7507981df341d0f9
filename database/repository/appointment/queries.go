package appointmentRepo

import (
	"fmt"
	"time"

	"lexcitas/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// blockedEvent is the stored shape of an internal project block.
type blockedEvent struct {
	Date        string `bson:"date"`
	Start       string `bson:"start"`
	DurationMin int    `bson:"durationMin"`
	Reason      string `bson:"reason,omitempty"`
}

// ListDayEvents returns the busy intervals recorded for a date: every
// non-cancelled appointment plus every blocked project event.
func (r *MongoAppointmentRepo) ListDayEvents(date string) ([]models.DayEvent, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"status": bson.M{"$ne": models.StatusCancelled},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.DayEvent
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, fmt.Errorf("failed to decode appointment: %w", err)
		}
		events = append(events, models.DayEvent{
			Kind:        models.EventAppointment,
			Start:       appt.Time,
			MeetingType: appt.MeetingType,
		})
	}

	blockedCursor, err := r.blockedColl.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked events: %w", err)
	}
	defer blockedCursor.Close(ctx)

	for blockedCursor.Next(ctx) {
		var blocked blockedEvent
		if err := blockedCursor.Decode(&blocked); err != nil {
			return nil, fmt.Errorf("failed to decode blocked event: %w", err)
		}
		events = append(events, models.DayEvent{
			Kind:        models.EventProject,
			Start:       blocked.Start,
			DurationMin: blocked.DurationMin,
		})
	}
	return events, nil
}

// ListActiveByEmail returns pending and confirmed appointments for a client.
func (r *MongoAppointmentRepo) ListActiveByEmail(email string) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"clientEmail": email,
		"status":      bson.M{"$in": []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// ListByStatusAndDate returns appointments with the given status on a date.
func (r *MongoAppointmentRepo) ListByStatusAndDate(status models.AppointmentStatus, date string) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"status": status, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s appointments for %s: %w", status, date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// ListFromDate returns non-cancelled appointments on or after the date.
func (r *MongoAppointmentRepo) ListFromDate(date string) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"date":   bson.M{"$gte": date},
		"status": bson.M{"$ne": models.StatusCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments from %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
