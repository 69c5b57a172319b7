package quota

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounterRepo is an in-memory UsageCounterRepository with the same
// increment semantics as the SQL implementation.
type fakeCounterRepo struct {
	counts map[string]int
	err    error
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counts: make(map[string]int)}
}

func (r *fakeCounterRepo) key(userID uint, pt PeriodType, start time.Time) string {
	return fmt.Sprintf("%d/%s/%s", userID, pt, start.Format(time.RFC3339))
}

func (r *fakeCounterRepo) IncrementIfBelow(_ context.Context, userID uint, pt PeriodType, window Window, limit int) (*IncrementOutcome, error) {
	if r.err != nil {
		return nil, r.err
	}

	k := r.key(userID, pt, window.Start)
	count := r.counts[k]
	if count >= limit {
		return &IncrementOutcome{Count: count, Admitted: false}, nil
	}
	count++
	r.counts[k] = count
	return &IncrementOutcome{Count: count, Admitted: true}, nil
}

func (r *fakeCounterRepo) GetCount(_ context.Context, userID uint, pt PeriodType, periodStart time.Time) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.counts[r.key(userID, pt, periodStart)], nil
}

func (r *fakeCounterRepo) ListByUser(_ context.Context, _ uint, _ PeriodType, _ int) ([]*UsageCounter, error) {
	if r.err != nil {
		return nil, r.err
	}
	return nil, nil
}

func finiteSet(hourly, daily, monthly int) LimitSet {
	return LimitSet{
		Hourly:  MustFinite(hourly),
		Daily:   MustFinite(daily),
		Monthly: MustFinite(monthly),
	}
}

func TestCheckAndIncrement_SequentialDrainsHourlyLimit(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(5, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	for i := 1; i <= 5; i++ {
		result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i)
		assert.Equal(t, MustFinite(5-i), result.Remaining.Hourly)
	}

	// the sixth request is denied and the stored count stays at the limit
	result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, MustFinite(0), result.Remaining.Hourly)

	count, err := repo.GetCount(context.Background(), 1, PeriodTypeHourly, HourWindow(now).Start)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCheckAndIncrement_UnboundedPeriodSkipsStorage(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := LimitSet{
		Hourly:  Unbounded(),
		Daily:   Unbounded(),
		Monthly: Unbounded(),
	}
	now := utcTime(2025, time.June, 13, 9, 30)

	for i := 0; i < 3; i++ {
		result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.True(t, result.Remaining.Hourly.IsUnbounded())
	}

	assert.Empty(t, repo.counts, "unbounded periods must never touch storage")
}

func TestCheckAndIncrement_DenialReportsAllPeriods(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(2, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	for i := 0; i < 2; i++ {
		_, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
		require.NoError(t, err)
	}

	result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	// remaining is reported per period independently of the denial;
	// the daily and monthly counters still admitted their increments
	assert.Equal(t, MustFinite(0), result.Remaining.Hourly)
	assert.Equal(t, MustFinite(97), result.Remaining.Daily)
	assert.Equal(t, MustFinite(997), result.Remaining.Monthly)
}

func TestCheckAndIncrement_ZeroLimitDeniesImmediately(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(0, 10, 10)
	now := utcTime(2025, time.June, 13, 9, 30)

	result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, MustFinite(0), result.Remaining.Hourly)

	count, err := repo.GetCount(context.Background(), 1, PeriodTypeHourly, HourWindow(now).Start)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCheckAndIncrement_StorageErrorPropagates(t *testing.T) {
	repo := newFakeCounterRepo()
	repo.err = errors.New("connection refused")
	checker := NewChecker(repo)
	now := utcTime(2025, time.June, 13, 9, 30)

	result, err := checker.CheckAndIncrement(context.Background(), 1, finiteSet(5, 5, 5), nil, now)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCheckAndIncrement_NewWindowResetsBudget(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(1, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	// the next hour has its own counter row
	result, err = checker.CheckAndIncrement(context.Background(), 1, limits, nil, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestCheckOnly_DoesNotConsume(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(5, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	for i := 0; i < 3; i++ {
		result, err := checker.CheckOnly(context.Background(), 1, limits, nil, now)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, MustFinite(5), result.Remaining.Hourly)
	}

	assert.Empty(t, repo.counts)
}

func TestCheckOnly_ReportsExhaustion(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(2, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	for i := 0; i < 2; i++ {
		_, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
		require.NoError(t, err)
	}

	result, err := checker.CheckOnly(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, MustFinite(0), result.Remaining.Hourly)

	// the dry run must not have consumed anything
	count, err := repo.GetCount(context.Background(), 1, PeriodTypeHourly, HourWindow(now).Start)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCheckAndIncrement_UsersAreIsolated(t *testing.T) {
	repo := newFakeCounterRepo()
	checker := NewChecker(repo)
	limits := finiteSet(1, 100, 1000)
	now := utcTime(2025, time.June, 13, 9, 30)

	result, err := checker.CheckAndIncrement(context.Background(), 1, limits, nil, now)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = checker.CheckAndIncrement(context.Background(), 2, limits, nil, now)
	require.NoError(t, err)
	assert.True(t, result.Allowed, "one user's exhaustion must not affect another")
}

func TestHistory_RejectsInvalidPeriodType(t *testing.T) {
	checker := NewChecker(newFakeCounterRepo())

	_, err := checker.History(context.Background(), 1, PeriodType("weekly"), 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period type")
}
