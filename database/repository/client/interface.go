package clientRepo

import "lexcitas/models"

// ClientRepository defines methods for client data access.
type ClientRepository interface {
	// Upsert inserts the client or, when a record with the same email
	// already exists, updates its remaining fields. Returns the record id.
	Upsert(client *models.Client) (string, error)
	// GetByEmail retrieves a client by email. Returns nil when not found.
	GetByEmail(email string) (*models.Client, error)
	// GetByPhone retrieves a client by phone. Returns nil when not found.
	GetByPhone(phone string) (*models.Client, error)
	// LinkAppointment appends an appointment id to the client's list.
	LinkAppointment(clientID, appointmentID string) error
}
