// Package scheduler is the in-process stand-in for an OS notification
// scheduler: a minute ticker that fires registered dose triggers at their
// wall-clock times and advances each one to its next occurrence.
package scheduler

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/format"
	"medminder/internal/repository"
	"medminder/internal/rrule"
)

type Scheduler struct {
	api           *tgbotapi.BotAPI
	reminderRepo  *repository.ReminderRepository
	ownerChatID   int64
	checkInterval time.Duration
	notifyCh      chan struct{}
}

func New(api *tgbotapi.BotAPI, reminderRepo *repository.ReminderRepository, ownerChatID int64) *Scheduler {
	return &Scheduler{
		api:           api,
		reminderRepo:  reminderRepo,
		ownerChatID:   ownerChatID,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now()
	triggers, err := s.reminderRepo.GetDue(ctx, now)
	if err != nil {
		log.Printf("Failed to get due triggers: %v", err)
		return
	}

	for _, trigger := range triggers {
		// Triggers carry their own payload, so a reminder renders without
		// touching the medications table at fire time.
		msg := tgbotapi.NewMessage(s.ownerChatID, format.Reminder(trigger))
		msg.ParseMode = "Markdown"
		if _, err := s.api.Send(msg); err != nil {
			log.Printf("Failed to send reminder for trigger %d: %v", trigger.TriggerID, err)
			continue
		}
		log.Printf("Fired trigger %d (%s at %s)", trigger.TriggerID, trigger.Name, trigger.TimeOfDay)

		s.advance(ctx, trigger.TriggerID, trigger.RecurrenceRule, trigger.CreatedAt, now)
	}
}

// advance moves a fired trigger to its next occurrence. Strictly-after
// search so the occurrence that just fired is never scheduled twice.
func (s *Scheduler) advance(ctx context.Context, triggerID int, rule string, dtstart, now time.Time) {
	next, err := rrule.NextOccurrenceStrict(rule, dtstart, now)
	if err != nil {
		log.Printf("Failed to calculate next occurrence for trigger %d: %v", triggerID, err)
		next = nil
	}
	if err := s.reminderRepo.SetNextFireAt(ctx, triggerID, next); err != nil {
		log.Printf("Failed to advance trigger %d: %v", triggerID, err)
	}
}
