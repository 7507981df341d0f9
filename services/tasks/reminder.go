package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:appointment"

// ReminderPayload identifies the appointment to remind about. The handler
// re-fetches the record at fire time, so a cancellation between enqueue and
// fire silently drops the reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
}

func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
