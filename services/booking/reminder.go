package booking

import (
	"encoding/json"
	"time"

	"visitcare/config"
	"visitcare/models"

	"github.com/hibiken/asynq"
)

const TypeVisitReminder = "visit:reminder"

// NewVisitReminderTask builds the asynq task for one visit reminder.
func NewVisitReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeVisitReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// NewReminderClient returns an asynq client bound to the reminder queue DB.
func NewReminderClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
}
