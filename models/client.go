package models

import "time"

// Client is a person known to the practice. Email is the identity key:
// upserts match on it and update the remaining fields.
type Client struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	AppointmentIDs []string  `bson:"appointmentIds,omitempty" json:"appointmentIds,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
