// school-control/models/student.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents the student model in the database.
// Students are created by the admin CRUD; the billing core only reads them.
type Student struct {
	gorm.Model
	FirstName string     `json:"firstName" gorm:"not null"`
	LastName  string     `json:"lastName"`
	BirthDate *time.Time `json:"birthDate"`

	ResponsibleID uint         `json:"responsibleId" gorm:"index;not null"`
	Responsible   *Responsible `json:"responsible,omitempty" gorm:"foreignKey:ResponsibleID"`

	// Current class assignment, kept in sync by the enrollment lifecycle.
	ClassPlanID *uint      `json:"classPlanId"`
	ClassPlan   *ClassPlan `json:"classPlan,omitempty" gorm:"foreignKey:ClassPlanID"`
}

func (Student) TableName() string { return "students" }
