// school-control/internal/billing/testutil_test.go
package billing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory database per test. The DSN carries the
// test name so parallel tests never share state through the shared cache.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Responsible{},
		&models.Student{},
		&models.ClassPlan{},
		&models.Enrollment{},
		&models.Tuition{},
		&models.Discount{},
	))
	return db
}

func newServices(t *testing.T) (*gorm.DB, *TuitionGenerator, *EnrollmentService, *DiscountService, *ReportService) {
	t.Helper()
	db := newTestDB(t)
	generator := NewTuitionGenerator(db, DefaultDueDay, DefaultBatchTimeout)
	discounts := NewDiscountService(db, nil)
	enrollments := NewEnrollmentService(db, generator, discounts)
	reports := NewReportService(db)
	return db, generator, enrollments, discounts, reports
}

func createResponsible(t *testing.T, db *gorm.DB, name string) *models.Responsible {
	t.Helper()
	responsible := &models.Responsible{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(responsible).Error)
	return responsible
}

func createStudent(t *testing.T, db *gorm.DB, name string, responsibleID uint) *models.Student {
	t.Helper()
	student := &models.Student{FirstName: name, ResponsibleID: responsibleID}
	require.NoError(t, db.Create(student).Error)
	return student
}

func createClassPlan(t *testing.T, db *gorm.DB, name string, enrollmentFee, monthlyFee float64) *models.ClassPlan {
	t.Helper()
	plan := &models.ClassPlan{Name: name, EnrollmentFee: enrollmentFee, MonthlyFee: monthlyFee}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func createEnrollment(t *testing.T, db *gorm.DB, studentID, planID uint, tuitionAmount float64, active bool, endDate *time.Time) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{
		StudentID:     studentID,
		ClassPlanID:   planID,
		TuitionAmount: tuitionAmount,
		Active:        active,
		EndDate:       endDate,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func createTuition(t *testing.T, db *gorm.DB, responsibleID, enrollmentID uint, amount float64, status string, dueDate time.Time, paymentDate *time.Time) *models.Tuition {
	t.Helper()
	tuition := &models.Tuition{
		Reference:     uuid.NewString(),
		Amount:        amount,
		Status:        status,
		DueDate:       dueDate,
		PaymentDate:   paymentDate,
		EnrollmentID:  enrollmentID,
		ResponsibleID: responsibleID,
		PeriodYear:    dueDate.Year(),
		PeriodMonth:   int(dueDate.Month()),
	}
	require.NoError(t, db.Create(tuition).Error)
	return tuition
}

func timePtr(v time.Time) *time.Time { return &v }
