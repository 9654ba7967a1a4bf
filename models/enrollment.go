// school-control/models/enrollment.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment binds a student to a class plan for a billing cycle.
//
// Fee and TuitionAmount are a snapshot taken from the ClassPlan (or from
// explicit overrides) when the enrollment is created. At most one live
// enrollment exists per student: re-enrolling removes the previous record
// before the new one is inserted.
type Enrollment struct {
	gorm.Model
	StudentID uint     `json:"studentId" gorm:"index;not null"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	ClassPlanID uint       `json:"classPlanId" gorm:"not null"`
	ClassPlan   *ClassPlan `json:"classPlan,omitempty" gorm:"foreignKey:ClassPlanID"`

	Fee           float64 `json:"fee" gorm:"type:numeric(12,2)"`
	TuitionAmount float64 `json:"tuitionAmount" gorm:"type:numeric(12,2)"`

	Active bool `json:"active" gorm:"default:true"`

	// EndDate marks the boundary of the current billing cycle. An enrollment
	// whose EndDate has elapsed (or was never set) is due for the next
	// tuition at the scheduled run.
	EndDate *time.Time `json:"endDate"`
}

func (Enrollment) TableName() string { return "enrollments" }
