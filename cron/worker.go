package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lexcitas/config"
	appointmentRepo "lexcitas/database/repository/appointment"
	"lexcitas/models"
	"lexcitas/services/notification"
	"lexcitas/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// Scheduler enqueues day-before reminders. It satisfies the conversation
// engine's ReminderScheduler.
type Scheduler struct {
	client   *asynq.Client
	location *time.Location
}

func NewScheduler(location *time.Location) *Scheduler {
	return &Scheduler{
		client:   asynq.NewClient(redisOpts()),
		location: location,
	}
}

// ScheduleReminder enqueues a reminder firing at 10:00 the day before the
// appointment. Appointments for today or tomorrow morning get no reminder.
func (s *Scheduler) ScheduleReminder(appt *models.Appointment) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.Time, s.location)
	if err != nil {
		return fmt.Errorf("invalid appointment schedule %q %q: %w", appt.Date, appt.Time, err)
	}

	fireAt := time.Date(start.Year(), start.Month(), start.Day(), 10, 0, 0, 0, s.location).AddDate(0, 0, -1)
	if !fireAt.After(time.Now().In(s.location)) {
		return nil
	}

	task, opts, err := tasks.NewReminderTask(tasks.ReminderPayload{AppointmentID: appt.ID}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(appts, notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		appt, err := appts.GetByID(p.AppointmentID)
		if err != nil {
			log.Printf("[ReminderHandler] failed to fetch appointment %s: %v", p.AppointmentID, err)
			return err
		}
		if appt == nil || appt.Status != models.StatusConfirmed {
			// Cancelled or gone since enqueue. Drop silently.
			return nil
		}

		if err := notifSvc.SendReminderEmail(ctx, appt); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for %s: %v", p.AppointmentID, err)
			return err
		}

		if err := appts.UpdateStatus(appt.ID, models.StatusProcessed); err != nil {
			// The reminder went out; a stuck status only risks a duplicate
			// send on redelivery.
			log.Printf("[ReminderHandler] failed to mark %s processed: %v", p.AppointmentID, err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
