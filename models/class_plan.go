// school-control/models/class_plan.go

package models

import "gorm.io/gorm"

// ClassPlan describes a class offering and its monetary terms. The fees here
// are only defaults: an Enrollment copies them at creation time, so editing a
// plan never changes obligations that already exist.
type ClassPlan struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	EnrollmentFee float64 `json:"enrollmentFee" gorm:"type:numeric(12,2)"`
	MonthlyFee    float64 `json:"monthlyFee" gorm:"type:numeric(12,2)"`
}

func (ClassPlan) TableName() string { return "class_plans" }
