// services/scheduler.go
package services

import (
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDeadlineScheduler closes registration once REGISTRATION_DEADLINE
// (RFC3339) passes. Without a deadline configured, registration stays open
// and the scheduler is not started.
func (s *EntryService) StartDeadlineScheduler() {
	deadlineStr := os.Getenv("REGISTRATION_DEADLINE")
	if deadlineStr == "" {
		log.Println("⚠️  REGISTRATION_DEADLINE not set — registration stays open")
		return
	}
	deadline, err := time.Parse(time.RFC3339, deadlineStr)
	if err != nil {
		log.Printf("⚠️  Invalid REGISTRATION_DEADLINE %q: %v — registration stays open", deadlineStr, err)
		return
	}

	if time.Now().After(deadline) {
		s.CloseRegistration()
		log.Printf("✅ Registration deadline %s already passed — closed at startup", deadlineStr)
		return
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: close registration once the deadline passes.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if s.RegistrationOpen() && time.Now().After(deadline) {
				s.CloseRegistration()
				log.Printf("✅ Registration closed (deadline %s reached)", deadlineStr)
			}
		}),
	)
	log.Printf("✅ Deadline scheduler running (closes at %s)", deadlineStr)
}
