// school-control/models/responsible.go

package models

import "gorm.io/gorm"

// Responsible is the guardian who pays the bills for one or more students.
// The student count drives the sibling discount.
type Responsible struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"uniqueIndex"`
	Phone string `json:"phone"`

	Students  []Student  `json:"students,omitempty" gorm:"foreignKey:ResponsibleID"`
	Discounts []Discount `json:"discounts,omitempty" gorm:"many2many:responsible_discounts"`
}

func (Responsible) TableName() string { return "responsibles" }
