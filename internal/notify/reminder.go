package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// inactivityWindow is how long a user can go without booking before
// the reminder fires.
const inactivityWindow = 7 * 24 * time.Hour

// StartReminderJob wakes up on the given interval and emails every
// active user whose last reservation is older than a week.  It runs
// until ctx is cancelled and is meant to be launched as a goroutine
// from main.
func StartReminderJob(ctx context.Context, users *repository.UserRepo, mailer *Mailer, interval time.Duration) {
	if !mailer.Enabled() {
		log.Println("reminder: SMTP not configured, job disabled")
		return
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce(ctx, users, mailer)
		}
	}
}

func runOnce(ctx context.Context, users *repository.UserRepo, mailer *Mailer) {
	cutoff := time.Now().UTC().Add(-inactivityWindow)
	idle, err := users.ListInactiveSince(ctx, cutoff)
	if err != nil {
		log.Printf("reminder: list inactive users failed: %v", err)
		return
	}
	for _, u := range idle {
		body := fmt.Sprintf(
			"Hi %s,\n\nIt has been a while since your last parking reservation. "+
				"Book a spot whenever you need one.\n", u.Username)
		if err := mailer.Send(u.Email, "We saved you a spot", body); err != nil {
			log.Printf("reminder: %v", err)
		}
	}
	if len(idle) > 0 {
		log.Printf("reminder: sent %d reminder(s)", len(idle))
	}
}
