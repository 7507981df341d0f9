package models

import "time"

// AppointmentStatus tracks an appointment through its lifecycle.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusProcessed AppointmentStatus = "processed"
)

// Appointment is the persisted booking record. The core creates it on
// confirmation and mutates only its status afterwards; deletion is an
// admin concern.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	ClientID        string            `bson:"clientId" json:"clientId"`
	ClientName      string            `bson:"clientName" json:"clientName"`
	ClientEmail     string            `bson:"clientEmail" json:"clientEmail"`
	ClientPhone     string            `bson:"clientPhone,omitempty" json:"clientPhone,omitempty"`
	MeetingType     MeetingType       `bson:"meetingType" json:"meetingType"`
	Date            string            `bson:"date" json:"date"` // 2006-01-02
	Time            string            `bson:"time" json:"time"` // 15:04
	Topic           string            `bson:"topic,omitempty" json:"topic,omitempty"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	CalendarEventID string            `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
}

// AppointmentSummary is the reduced view shown in cancellation menus.
type AppointmentSummary struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	MeetingType MeetingType `json:"meetingType"`
	Topic       string      `json:"topic,omitempty"`
}

// EventKind tags a day event as either a client appointment or a blocked
// internal project slot.
type EventKind string

const (
	EventAppointment EventKind = "appointment"
	EventProject     EventKind = "project"
)

// DayEvent is a busy interval on a given day as recorded in the local
// store. Appointment events derive their duration from the meeting type;
// project events carry it explicitly.
type DayEvent struct {
	Kind        EventKind   `bson:"kind" json:"kind"`
	Start       string      `bson:"start" json:"start"` // 15:04
	MeetingType MeetingType `bson:"meetingType,omitempty" json:"meetingType,omitempty"`
	DurationMin int         `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
}
