// Package jobs provides scheduled background tasks for the ordering service.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with second precision.
//
// # Available Jobs
//
// ReadModelRefreshJob rebuilds the per-role queues from the order record store.
// Between runs the queues are kept current by post-commit notifications; the job
// repairs whatever those missed.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(queues, orderStore, "0 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed rebuild is logged and leaves the previous queues in place.
package jobs
