// school-control/internal/handlers/tuition_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TuitionHandler exposes the tuition list, the payment-recording endpoints
// and the manual generation trigger.
type TuitionHandler struct {
	db        *gorm.DB
	generator *billing.TuitionGenerator
}

func NewTuitionHandler(db *gorm.DB, generator *billing.TuitionGenerator) *TuitionHandler {
	return &TuitionHandler{db: db, generator: generator}
}

// List returns tuitions, paginated, optionally filtered by status and
// responsible.
func (h *TuitionHandler) List(c *gin.Context) {
	var tuitions []models.Tuition
	var totalRows int64

	query := h.db.Model(&models.Tuition{}).
		Preload("Responsible").
		Preload("Enrollment")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if responsibleID := c.Query("responsible_id"); responsibleID != "" {
		query = query.Where("responsible_id = ?", responsibleID)
	}
	query = query.Order("due_date DESC")

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tuitions"})
		return
	}
	if err := query.Scopes(Paginate(c)).Find(&tuitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tuitions"})
		return
	}
	if tuitions == nil {
		tuitions = make([]models.Tuition, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, tuitions, totalRows))
}

// PayRequest optionally fixes the payment date; defaults to now.
type PayRequest struct {
	PaymentDate *time.Time `json:"paymentDate"`
}

// MarkPaid records a payment against a pending tuition.
func (h *TuitionHandler) MarkPaid(c *gin.Context) {
	h.transition(c, models.TuitionPaid)
}

// MarkLate flags a pending tuition as overdue.
func (h *TuitionHandler) MarkLate(c *gin.Context) {
	h.transition(c, models.TuitionLate)
}

// transition moves a tuition out of pending. Only pending tuitions may
// move; anything else is a conflict.
func (h *TuitionHandler) transition(c *gin.Context, target string) {
	id := c.Param("id")

	var req PayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
	}

	var tuition models.Tuition
	if err := h.db.First(&tuition, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tuition not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if tuition.Status != models.TuitionPending {
		abortWithError(c, fmt.Errorf("%w: tuition is already %s", billing.ErrConflict, tuition.Status))
		return
	}

	updates := map[string]interface{}{"status": target}
	if target == models.TuitionPaid {
		paymentDate := time.Now()
		if req.PaymentDate != nil {
			paymentDate = *req.PaymentDate
		}
		updates["payment_date"] = paymentDate
	}

	if err := h.db.Model(&tuition).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tuition"})
		return
	}
	c.JSON(http.StatusOK, tuition)
}

// Generate triggers the monthly batch by hand, for backfill. Accepts an
// optional as_of=YYYY-MM-DD query; generation is idempotent per period so
// repeated calls are safe.
func (h *TuitionHandler) Generate(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid as_of date, use YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	result, err := h.generator.RunMonthlyGeneration(c.Request.Context(), asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "created": result.Created, "failed": result.Failed})
		return
	}
	c.JSON(http.StatusOK, result)
}
