// Package jobs runs scheduled background work on github.com/robfig/cron/v3.
//
// DailyOrdersJob generates the day's orders from active subscriptions, once per
// configured meal type. Re-running it is harmless: bulk creation skips slots
// that already have an order.
//
// JobManager starts and stops a set of jobs together:
//
//	manager := jobs.NewJobManager(dailyOrdersJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// Schedules use six fields with a leading seconds column, e.g. "0 30 5 * * *"
// for 05:30:00 every day.
package jobs
