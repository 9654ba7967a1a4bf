// school-control/internal/routes/api_routes.go
package routes

import (
	"github.com/clebrsonn/school-control-sub000/internal/handlers"
	"github.com/clebrsonn/school-control-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP surface of the billing core so the composition
// root can pass it in one piece.
type Handlers struct {
	Enrollments *handlers.EnrollmentHandler
	Discounts   *handlers.DiscountHandler
	Tuitions    *handlers.TuitionHandler
	Reports     *handlers.ReportHandler
}

// SetupRoutes registers every route of the application.
func SetupRoutes(r *gin.Engine, h Handlers) {
	r.Use(middleware.RequestLogger())

	apiGroup := r.Group("/api")
	{
		// --- ENROLLMENT LIFECYCLE ---
		enrollments := apiGroup.Group("/enrollments")
		{
			enrollments.POST("", h.Enrollments.Enroll)
			enrollments.POST("/:id/cancel", h.Enrollments.Cancel)
			enrollments.POST("/:id/renew", h.Enrollments.Renew)
			enrollments.GET("/student/:studentId", h.Enrollments.ListForStudent)
		}

		// --- DISCOUNTS ---
		discounts := apiGroup.Group("/discounts")
		{
			discounts.GET("", h.Discounts.List)
			discounts.POST("", h.Discounts.Create)
			discounts.GET("/responsible/:responsibleId", h.Discounts.SiblingDiscount)
		}

		// --- TUITIONS ---
		tuitions := apiGroup.Group("/tuitions")
		{
			tuitions.GET("", h.Tuitions.List)
			tuitions.POST("/generate", h.Tuitions.Generate)
			tuitions.POST("/:id/pay", h.Tuitions.MarkPaid)
			tuitions.POST("/:id/late", h.Tuitions.MarkLate)
		}

		// --- PAYMENT REPORTS ---
		reports := apiGroup.Group("/payments/reports")
		{
			reports.GET("/monthly-debt/:responsibleId", h.Reports.MonthlyDebt)
			reports.GET("/late", h.Reports.LateInvoices)
			reports.GET("/paid", h.Reports.PaidInvoices)
			reports.GET("/total-current-month", h.Reports.TotalForCurrentMonth)
			reports.GET("/on-time-payers", h.Reports.OnTimePayers)
			reports.GET("/late-payers", h.Reports.MostLatePayers)
			reports.GET("/pending-current-month", h.Reports.PendingForCurrentMonth)
			reports.GET("/grouped", h.Reports.Grouped)
			reports.GET("/grouped/export", h.Reports.ExportGrouped)
		}
	}
}
