// school-control/internal/billing/reports_test.go
package billing

import (
	"context"
	"testing"
	"time"

	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyDebtSumsAndSortsAscending(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	responsible := createResponsible(t, db, "ana")
	other := createResponsible(t, db, "noise")
	student := createStudent(t, db, "joao", responsible.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	// Inserted deliberately out of chronological order.
	createTuition(t, db, responsible.ID, e1.ID, 100, models.TuitionPending, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e2.ID, 150, models.TuitionPending, time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e3.ID, 50, models.TuitionPaid, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, other.ID, e1.ID, 999, models.TuitionPending, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), nil)

	rows, err := reports.MonthlyDebt(ctx, responsible.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2025, rows[0].Year)
	assert.Equal(t, 12, rows[0].Month)
	assert.Equal(t, 150.0, rows[0].TotalDebt)

	assert.Equal(t, 2026, rows[1].Year)
	assert.Equal(t, 3, rows[1].Month)
	assert.Equal(t, 150.0, rows[1].TotalDebt)
}

func TestMonthlyDebtCollidingTuitionsNeedDistinctEnrollments(t *testing.T) {
	// Two tuitions for the same enrollment and period must be rejected by
	// the idempotency key.
	db, _, _, _, _ := newServices(t)

	responsible := createResponsible(t, db, "dup")
	student := createStudent(t, db, "dup", responsible.ID)
	plan := createClassPlan(t, db, "dup", 0, 100)
	enrollment := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	due := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	createTuition(t, db, responsible.ID, enrollment.ID, 100, models.TuitionPending, due, nil)

	err := db.Create(&models.Tuition{
		Reference:     "dup-ref",
		Amount:        100,
		Status:        models.TuitionPending,
		DueDate:       due,
		EnrollmentID:  enrollment.ID,
		ResponsibleID: responsible.ID,
		PeriodYear:    due.Year(),
		PeriodMonth:   int(due.Month()),
	}).Error
	assert.Error(t, err)
}

func TestLateAndPaidInvoiceOrdering(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	responsible := createResponsible(t, db, "bia")
	student := createStudent(t, db, "rita", responsible.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e4 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	createTuition(t, db, responsible.ID, e1.ID, 100, models.TuitionLate, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e2.ID, 100, models.TuitionLate, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e3.ID, 100, models.TuitionPaid, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		timePtr(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)))
	createTuition(t, db, responsible.ID, e4.ID, 100, models.TuitionPaid, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
		timePtr(time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)))

	late, err := reports.LateInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, late, 2)
	assert.True(t, late[0].DueDate.Before(late[1].DueDate))
	require.NotNil(t, late[0].Responsible)
	require.NotNil(t, late[0].Enrollment)

	paid, err := reports.PaidInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.True(t, paid[0].PaymentDate.After(*paid[1].PaymentDate))
}

func TestTotalEstimatedForCurrentMonthIncludesBoundaries(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	responsible := createResponsible(t, db, "carla")
	student := createStudent(t, db, "leo", responsible.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	now := time.Date(2026, time.May, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e4 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	createTuition(t, db, responsible.ID, e1.ID, 100, models.TuitionPending, monthStart, nil)
	createTuition(t, db, responsible.ID, e2.ID, 40, models.TuitionPaid, monthEnd, nil)
	createTuition(t, db, responsible.ID, e3.ID, 999, models.TuitionPending, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e4.ID, 999, models.TuitionPending, time.Date(2026, time.April, 30, 23, 59, 0, 0, time.UTC), nil)

	total, err := reports.TotalEstimatedForCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 140.0, total)
}

func TestPayerRankings(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	prompt := createResponsible(t, db, "prompt payer")
	slow := createResponsible(t, db, "slow payer")
	student := createStudent(t, db, "kid", prompt.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e4 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	// Prompt: two paid, one late across two months. Slow: one paid.
	createTuition(t, db, prompt.ID, e1.ID, 100, models.TuitionPaid, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), timePtr(time.Now()))
	createTuition(t, db, prompt.ID, e2.ID, 100, models.TuitionPaid, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), timePtr(time.Now()))
	createTuition(t, db, prompt.ID, e3.ID, 100, models.TuitionLate, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, slow.ID, e4.ID, 100, models.TuitionPaid, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), timePtr(time.Now()))

	onTime, err := reports.OnTimePayers(ctx)
	require.NoError(t, err)
	require.Len(t, onTime, 2)
	assert.Equal(t, prompt.ID, onTime[0].ResponsibleID)
	assert.Equal(t, int64(2), onTime[0].Count)
	require.NotNil(t, onTime[0].Responsible)
	assert.Equal(t, "prompt payer", onTime[0].Responsible.Name)
	assert.Equal(t, int64(1), onTime[1].Count)

	lates, err := reports.MostLatePayers(ctx)
	require.NoError(t, err)
	require.Len(t, lates, 1)
	assert.Equal(t, prompt.ID, lates[0].ResponsibleID)
	assert.Equal(t, int64(1), lates[0].Count)
}

func TestPendingForCurrentMonthGroupsAndFilters(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	ana := createResponsible(t, db, "ana")
	bia := createResponsible(t, db, "bia")
	student := createStudent(t, db, "kid", ana.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	now := time.Date(2026, time.July, 20, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e4 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e5 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	createTuition(t, db, ana.ID, e1.ID, 100, models.TuitionPending, due, nil)
	createTuition(t, db, ana.ID, e2.ID, 50, models.TuitionPending, due, nil)
	createTuition(t, db, bia.ID, e3.ID, 75, models.TuitionPending, due, nil)
	createTuition(t, db, ana.ID, e4.ID, 999, models.TuitionPaid, due, nil)
	createTuition(t, db, ana.ID, e5.ID, 999, models.TuitionPending, time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC), nil)

	groups, err := reports.PendingForCurrentMonth(ctx, now)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byResponsible := map[uint]MonthlyGroup{}
	for _, group := range groups {
		assert.Equal(t, 2026, group.Year)
		assert.Equal(t, 7, group.Month)
		byResponsible[group.ResponsibleID] = group
	}

	anaGroup := byResponsible[ana.ID]
	assert.Equal(t, 150.0, anaGroup.TotalAmount)
	assert.Len(t, anaGroup.Payments, 2)
	require.NotNil(t, anaGroup.Responsible)
	assert.Equal(t, "ana", anaGroup.Responsible.Name)

	biaGroup := byResponsible[bia.ID]
	assert.Equal(t, 75.0, biaGroup.TotalAmount)
	assert.Len(t, biaGroup.Payments, 1)
}

func TestGroupedByMonthAndResponsibleOrdering(t *testing.T) {
	db, _, _, _, reports := newServices(t)
	ctx := context.Background()

	responsible := createResponsible(t, db, "ana")
	student := createStudent(t, db, "kid", responsible.ID)
	plan := createClassPlan(t, db, "p", 0, 100)

	e1 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e2 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)
	e3 := createEnrollment(t, db, student.ID, plan.ID, 100, true, nil)

	createTuition(t, db, responsible.ID, e1.ID, 100, models.TuitionPaid, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e2.ID, 100, models.TuitionLate, time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC), nil)
	createTuition(t, db, responsible.ID, e3.ID, 100, models.TuitionPending, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), nil)

	groups, err := reports.GroupedByMonthAndResponsible(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Ascending by year, then month, across every status.
	assert.Equal(t, []int{2025, 2026, 2026}, []int{groups[0].Year, groups[1].Year, groups[2].Year})
	assert.Equal(t, []int{11, 1, 2}, []int{groups[0].Month, groups[1].Month, groups[2].Month})
}
