package jobs

import (
	"context"
	"time"

	"libraryhub-backend/internal/logger"
	"libraryhub-backend/internal/service"
)

// SendOverdueReminders emails every borrower whose approved request is past
// its expected return date. Request state is not mutated; the reminder only
// reports the fine accrued so far.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		now := time.Now()

		requests, err := jr.store.ListOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to query overdue borrow requests", "error", err)
			return
		}

		count := 0
		for _, req := range requests {
			fine := service.LateFineCents(req.ExpectedReturnDate, now, jr.config.Library.DailyFineCents)
			daysLate := fine / jr.config.Library.DailyFineCents

			err := jr.emailSvc.SendOverdueReminder(ctx, req.UserEmail, req.UserFullName, req.BookTitle, daysLate, fine)
			if err != nil {
				logger.Error("Failed to send overdue reminder",
					"request_id", req.ID,
					"user_id", req.UserID,
					"email", req.UserEmail,
					"error", err)
				continue
			}

			count++
			logger.Debug("Sent overdue reminder",
				"request_id", req.ID,
				"user_id", req.UserID,
				"email", req.UserEmail)
		}

		logger.Info("Overdue reminders sent", "count", count)
	})
}
