// school-control/models/tuition.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Tuition statuses. The billing core creates pending tuitions; the payment
// recording endpoint moves them to paid or late.
const (
	TuitionPending = "pending"
	TuitionPaid    = "paid"
	TuitionLate    = "late"
)

// Tuition is one billing obligation for one enrollment and one period.
//
// PeriodYear/PeriodMonth are derived from the generation timestamp and form
// a unique key together with EnrollmentID, so re-running the monthly batch
// can never duplicate an obligation. Deleting an enrollment does not cascade
// here: tuitions are the payment history.
type Tuition struct {
	gorm.Model
	Reference string  `json:"reference" gorm:"uniqueIndex;not null"`
	Amount    float64 `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status    string  `json:"status" gorm:"default:'pending';index"`

	DueDate     time.Time  `json:"dueDate" gorm:"not null;index"`
	PaymentDate *time.Time `json:"paymentDate"`

	EnrollmentID uint        `json:"enrollmentId" gorm:"index;uniqueIndex:idx_tuitions_enrollment_period"`
	Enrollment   *Enrollment `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`

	ResponsibleID uint         `json:"responsibleId" gorm:"index"`
	Responsible   *Responsible `json:"responsible,omitempty" gorm:"foreignKey:ResponsibleID"`

	PeriodYear  int `json:"periodYear" gorm:"uniqueIndex:idx_tuitions_enrollment_period"`
	PeriodMonth int `json:"periodMonth" gorm:"uniqueIndex:idx_tuitions_enrollment_period"`
}

func (Tuition) TableName() string { return "tuitions" }
