package cron

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/service/balance"
)

type recordingBalanceRepo struct {
	balances map[string]decimal.Decimal
	accruals int
}

func (r *recordingBalanceRepo) GetByUserID(_ context.Context, userID string) (leave.Balance, error) {
	b, ok := r.balances[userID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return leave.Balance{UserID: userID, Balance: b}, nil
}

func (r *recordingBalanceRepo) AccrueAll(_ context.Context, amount decimal.Decimal) error {
	r.accruals++
	for id, b := range r.balances {
		r.balances[id] = b.Add(amount)
	}
	return nil
}

func (r *recordingBalanceRepo) Debit(_ context.Context, userID string, days decimal.Decimal) error {
	r.balances[userID] = r.balances[userID].Sub(days)
	return nil
}

func newTestAccrualJobs(repo leave.BalanceRepository, at time.Time) *AccrualJobs {
	ledger := balance.NewLedger(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	jobs := NewAccrualJobs(ledger)
	jobs.now = func() time.Time { return at }
	return jobs
}

func TestAccrueLeaveBalances_WeekdayEvening(t *testing.T) {
	repo := &recordingBalanceRepo{balances: map[string]decimal.Decimal{
		"a": decimal.NewFromInt(10),
	}}
	// Monday 18:30
	jobs := newTestAccrualJobs(repo, time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC))

	require.NoError(t, jobs.AccrueLeaveBalances(context.Background()))

	assert.Equal(t, 1, repo.accruals)
	assert.Equal(t, "10.04", repo.balances["a"].String())
}

func TestAccrueLeaveBalances_OutsideWindow(t *testing.T) {
	repo := &recordingBalanceRepo{balances: map[string]decimal.Decimal{
		"a": decimal.NewFromInt(10),
	}}
	// Monday 17:59 is outside the accrual hour.
	jobs := newTestAccrualJobs(repo, time.Date(2026, 8, 31, 17, 59, 0, 0, time.UTC))

	require.NoError(t, jobs.AccrueLeaveBalances(context.Background()))
	assert.Equal(t, 0, repo.accruals)
}

func TestAccrueLeaveBalances_SkipsWeekends(t *testing.T) {
	repo := &recordingBalanceRepo{balances: map[string]decimal.Decimal{
		"a": decimal.NewFromInt(10),
	}}
	// Saturday 18:00
	jobs := newTestAccrualJobs(repo, time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC))

	require.NoError(t, jobs.AccrueLeaveBalances(context.Background()))
	assert.Equal(t, 0, repo.accruals)

	// Sunday 18:00
	jobs.now = func() time.Time { return time.Date(2026, 9, 6, 18, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.AccrueLeaveBalances(context.Background()))
	assert.Equal(t, 0, repo.accruals)
}

func TestScheduler_RunOnce(t *testing.T) {
	repo := &recordingBalanceRepo{balances: map[string]decimal.Decimal{}}
	jobs := newTestAccrualJobs(repo, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC))

	scheduler := NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	assert.Equal(t, 1, repo.accruals)
}

func TestScheduler_DuplicateRegistrationIgnored(t *testing.T) {
	repo := &recordingBalanceRepo{balances: map[string]decimal.Decimal{}}
	jobs := newTestAccrualJobs(repo, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC))

	scheduler := NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	jobs.RegisterJobs(scheduler)
	jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	assert.Equal(t, 1, repo.accruals)
}
