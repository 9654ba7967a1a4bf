// school-control/internal/billing/generation.go

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultDueDay is the day of the month tuition falls due on.
	DefaultDueDay = 10

	// DefaultBatchTimeout bounds one scheduled generation run.
	DefaultBatchTimeout = 5 * time.Minute
)

// TuitionGenerator creates the recurring monthly obligations. It is invoked
// by the cron scheduler once per billing period and by the enrollment
// lifecycle for the first obligation of a fresh enrollment.
type TuitionGenerator struct {
	db      *gorm.DB
	dueDay  int
	timeout time.Duration
}

func NewTuitionGenerator(db *gorm.DB, dueDay int, timeout time.Duration) *TuitionGenerator {
	if dueDay <= 0 || dueDay > 28 {
		dueDay = DefaultDueDay
	}
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	return &TuitionGenerator{db: db, dueDay: dueDay, timeout: timeout}
}

// BatchResult summarizes one generation run. Failed carries the enrollment
// ids that errored so the scheduler can alert without aborting the batch.
type BatchResult struct {
	Created int    `json:"created"`
	Failed  []uint `json:"failed"`
}

// RunMonthlyGeneration creates the next tuition for every active enrollment
// whose billing cycle has elapsed as of asOf. Enrollments without an end
// date are treated as due; the (enrollment, period) unique key makes the
// wider selection, and any re-run, idempotent.
//
// Failures are isolated per enrollment: the run continues and reports them
// in the result instead of aborting.
func (g *TuitionGenerator) RunMonthlyGeneration(ctx context.Context, asOf time.Time) (BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var result BatchResult

	var candidates []models.Enrollment
	err := g.db.WithContext(ctx).
		Joins("Student").
		Where("enrollments.active = ? AND (enrollments.end_date IS NULL OR enrollments.end_date <= ?)", true, asOf).
		Order("enrollments.id").
		Find(&candidates).Error
	if err != nil {
		return result, fmt.Errorf("selecting due enrollments: %w", err)
	}

	for _, enrollment := range candidates {
		if ctx.Err() != nil {
			// Timed out mid-batch: everything not reached counts as failed.
			result.Failed = append(result.Failed, enrollment.ID)
			continue
		}

		if enrollment.Student == nil {
			slog.Warn("Enrollment has no student, skipping", "enrollment_id", enrollment.ID)
			result.Failed = append(result.Failed, enrollment.ID)
			continue
		}

		_, created, err := g.CreateForEnrollment(g.db.WithContext(ctx), &enrollment, enrollment.Student.ResponsibleID, asOf)
		if err != nil {
			slog.Warn("Tuition generation failed for enrollment", "enrollment_id", enrollment.ID, "error", err)
			result.Failed = append(result.Failed, enrollment.ID)
			continue
		}
		if created {
			result.Created++
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("generation run timed out: %w", ctx.Err())
	}
	return result, nil
}

// CreateForEnrollment persists the tuition for the period asOf falls in.
// The insert is a no-op when that period was already billed (ON CONFLICT DO
// NOTHING on the enrollment+period key); the second return value reports
// whether a row was actually created.
//
// The tx argument lets the enrollment lifecycle run this inside its own
// transaction so the first obligation lands atomically with the enrollment.
func (g *TuitionGenerator) CreateForEnrollment(tx *gorm.DB, enrollment *models.Enrollment, responsibleID uint, asOf time.Time) (*models.Tuition, bool, error) {
	tuition := &models.Tuition{
		Reference:     uuid.NewString(),
		Amount:        enrollment.TuitionAmount,
		Status:        models.TuitionPending,
		DueDate:       g.DueDate(asOf),
		EnrollmentID:  enrollment.ID,
		ResponsibleID: responsibleID,
		PeriodYear:    asOf.Year(),
		PeriodMonth:   int(asOf.Month()),
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "period_year"}, {Name: "period_month"}},
		DoNothing: true,
	}).Create(tuition)
	if res.Error != nil {
		return nil, false, fmt.Errorf("creating tuition for enrollment %d: %w", enrollment.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return tuition, true, nil
}

// DueDate returns the due date for the period asOf falls in: the configured
// day of that month at local midnight.
func (g *TuitionGenerator) DueDate(asOf time.Time) time.Time {
	return time.Date(asOf.Year(), asOf.Month(), g.dueDay, 0, 0, 0, 0, asOf.Location())
}
