// school-control/models/discount.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount types. Enrollment-fee discounts exist in the data model but are
// not applied anywhere yet; see DiscountService.
const (
	DiscountEnrollmentFee = "enrollment-fee"
	DiscountTuitionFee    = "tuition-fee"
)

// Discount is a named reduction rule. Value is the flat amount; when Formula
// is set it is evaluated instead (govaluate expression with the parameters
// "students" and "value") so the office can configure tiered sibling rules
// without a deploy.
type Discount struct {
	gorm.Model
	Name    string  `json:"name" gorm:"not null"`
	Value   float64 `json:"value" gorm:"type:numeric(12,2)"`
	Formula string  `json:"formula"`
	Type    string  `json:"type" gorm:"index;not null"`

	ValidUntil *time.Time `json:"validUntil"`
}

func (Discount) TableName() string { return "discounts" }
