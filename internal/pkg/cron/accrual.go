package cron

import (
	"context"
	"time"

	"github.com/ess-hr/ess-backend-go/internal/service/balance"
)

// AccrualJobs owns the daily leave accrual. The scheduler ticks hourly;
// the job itself only acts in the 18:00 hour on weekdays, so each
// working day contributes exactly one increment.
type AccrualJobs struct {
	ledger *balance.Ledger
	now    func() time.Time
}

func NewAccrualJobs(ledger *balance.Ledger) *AccrualJobs {
	return &AccrualJobs{
		ledger: ledger,
		now:    time.Now,
	}
}

func (j *AccrualJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("accrue_leave_balances", 1*time.Hour, j.AccrueLeaveBalances)
}

func (j *AccrualJobs) AccrueLeaveBalances(ctx context.Context) error {
	now := j.now()

	if now.Hour() != 18 {
		return nil
	}
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return nil
	}

	return j.ledger.Accrue(ctx)
}
