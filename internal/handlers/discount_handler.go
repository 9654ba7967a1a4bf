// school-control/internal/handlers/discount_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DiscountHandler exposes the discount lookup plus the small admin surface
// for maintaining discount rules.
type DiscountHandler struct {
	db      *gorm.DB
	service *billing.DiscountService
}

func NewDiscountHandler(db *gorm.DB, service *billing.DiscountService) *DiscountHandler {
	return &DiscountHandler{db: db, service: service}
}

// SiblingDiscount returns the computed tuition discount for a responsible.
func (h *DiscountHandler) SiblingDiscount(c *gin.Context) {
	responsibleID, err := strconv.ParseUint(c.Param("responsibleId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid responsible ID"})
		return
	}

	value, svcErr := h.service.SiblingDiscount(c.Request.Context(), uint(responsibleID))
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responsibleId": responsibleID, "discount": value})
}

// List returns all discount rules.
func (h *DiscountHandler) List(c *gin.Context) {
	discounts := make([]models.Discount, 0)
	if err := h.db.Order("id").Find(&discounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discounts"})
		return
	}
	c.JSON(http.StatusOK, discounts)
}

// Create adds a discount rule.
func (h *DiscountHandler) Create(c *gin.Context) {
	var discount models.Discount
	if err := c.ShouldBindJSON(&discount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount payload: " + err.Error()})
		return
	}
	if discount.Type != models.DiscountTuitionFee && discount.Type != models.DiscountEnrollmentFee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount type must be tuition-fee or enrollment-fee"})
		return
	}

	if err := h.db.Create(&discount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount"})
		return
	}
	c.JSON(http.StatusCreated, discount)
}
