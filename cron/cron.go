package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/store"
)

// StartCronJobs starts the scheduler for appointment reminders. Reminders
// go through the same dispatcher as lifecycle side effects, so a scheduler
// failure can never touch appointment state.
func StartCronJobs(st store.Store, dispatcher services.Dispatcher) (*cron.Cron, error) {
	c := cron.New()
	// Every ten minutes, remind users whose booked appointments start in
	// the next hour. The window matches the schedule so runs don't overlap.
	_, err := c.AddFunc("*/10 * * * *", func() {
		sendAppointmentReminders(st, dispatcher)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
	return c, nil
}

func sendAppointmentReminders(st store.Store, dispatcher services.Dispatcher) {
	ctx := context.Background()
	now := time.Now()
	from := now.Add(50 * time.Minute)
	to := now.Add(60 * time.Minute)

	appointments, err := st.Appointments().ListUpcomingBooked(ctx, from, to)
	if err != nil {
		log.Printf("cron: fetching appointments for reminders: %v", err)
		return
	}

	for i := range appointments {
		a := &appointments[i]
		if a.UserID == nil {
			continue
		}
		dispatcher.Notify(*a.UserID, fmt.Sprintf(
			"Reminder: your %s appointment %d starts at %s",
			a.Type, a.ID, a.StartTime.Format("2006-01-02 15:04")))
		log.Printf("cron: queued reminder for appointment %d", a.ID)
	}
}
