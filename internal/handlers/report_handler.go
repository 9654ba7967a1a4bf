// school-control/internal/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ReportHandler maps the aggregation queries 1:1 onto reporting endpoints.
type ReportHandler struct {
	reports *billing.ReportService
}

func NewReportHandler(reports *billing.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// MonthlyDebt returns the per-month debt totals of one responsible.
func (h *ReportHandler) MonthlyDebt(c *gin.Context) {
	responsibleID, err := strconv.ParseUint(c.Param("responsibleId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid responsible ID"})
		return
	}

	rows, svcErr := h.reports.MonthlyDebt(c.Request.Context(), uint(responsibleID))
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// LateInvoices lists late tuitions, oldest first.
func (h *ReportHandler) LateInvoices(c *gin.Context) {
	rows, err := h.reports.LateInvoices(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PaidInvoices lists paid tuitions, most recent payment first.
func (h *ReportHandler) PaidInvoices(c *gin.Context) {
	rows, err := h.reports.PaidInvoices(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TotalForCurrentMonth returns the amount expected this calendar month.
func (h *ReportHandler) TotalForCurrentMonth(c *gin.Context) {
	total, err := h.reports.TotalEstimatedForCurrentMonth(c.Request.Context(), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// OnTimePayers ranks responsibles by paid tuitions.
func (h *ReportHandler) OnTimePayers(c *gin.Context) {
	rows, err := h.reports.OnTimePayers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// MostLatePayers ranks responsibles by late tuitions.
func (h *ReportHandler) MostLatePayers(c *gin.Context) {
	rows, err := h.reports.MostLatePayers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PendingForCurrentMonth returns the open invoices of the current period,
// grouped per responsible.
func (h *ReportHandler) PendingForCurrentMonth(c *gin.Context) {
	rows, err := h.reports.PendingForCurrentMonth(c.Request.Context(), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Grouped returns the full month+responsible grouping across all history.
func (h *ReportHandler) Grouped(c *gin.Context) {
	rows, err := h.reports.GroupedByMonthAndResponsible(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExportGrouped streams the grouped report as an Excel workbook.
func (h *ReportHandler) ExportGrouped(c *gin.Context) {
	groups, err := h.reports.GroupedByMonthAndResponsible(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Tuition by month"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Year", "Month", "Responsible", "Total amount", "Invoices"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, group := range groups {
		row := i + 2
		responsibleName := ""
		if group.Responsible != nil {
			responsibleName = group.Responsible.Name
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), group.Year)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), group.Month)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), responsibleName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), group.TotalAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), len(group.Payments))
	}

	fileName := fmt.Sprintf("tuition_by_month_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
