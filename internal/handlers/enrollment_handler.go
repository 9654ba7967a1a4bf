// school-control/internal/handlers/enrollment_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/gin-gonic/gin"
)

// EnrollmentHandler exposes the enrollment lifecycle over HTTP.
type EnrollmentHandler struct {
	service *billing.EnrollmentService
}

func NewEnrollmentHandler(service *billing.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// EnrollRequest carries the enroll payload. Fee fields are optional
// overrides of the class plan defaults.
type EnrollRequest struct {
	StudentID     uint     `json:"studentId" binding:"required"`
	ClassPlanID   uint     `json:"classPlanId" binding:"required"`
	Fee           *float64 `json:"fee"`
	TuitionAmount *float64 `json:"tuitionAmount"`
}

// Enroll creates the student's new enrollment, replacing any previous one,
// and returns it with the first tuition already generated.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment payload: " + err.Error()})
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), req.StudentID, req.ClassPlanID, &billing.FeeOverrides{
		Fee:           req.Fee,
		TuitionAmount: req.TuitionAmount,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Cancel marks the enrollment inactive.
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID"})
		return
	}

	enrollment, svcErr := h.service.Cancel(c.Request.Context(), uint(id))
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// RenewRequest optionally moves the cycle boundary; a null endDate clears it.
type RenewRequest struct {
	EndDate *time.Time `json:"endDate"`
}

// Renew reactivates the enrollment so billing resumes at the next run.
func (h *EnrollmentHandler) Renew(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID"})
		return
	}

	var req RenewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid renew payload: " + err.Error()})
			return
		}
	}

	enrollment, svcErr := h.service.Renew(c.Request.Context(), uint(id), req.EndDate)
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// ListForStudent returns the student's enrollments with their class plans.
func (h *EnrollmentHandler) ListForStudent(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	enrollments, svcErr := h.service.EnrollmentsForStudent(c.Request.Context(), uint(studentID))
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}
