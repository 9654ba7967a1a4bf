// school-control/internal/billing/reports.go

package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/clebrsonn/school-control-sub000/models"
	"gorm.io/gorm"
)

// ReportService is the read-only aggregation layer over the tuition store.
// Nothing here mutates state, and every query orders its output so report
// consumers can assert exact positions.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// MonthlyDebt is one row of the per-responsible debt report.
type MonthlyDebt struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	TotalDebt float64 `json:"totalDebt"`
}

// PayerCount ranks a responsible by number of tuitions in a status.
type PayerCount struct {
	ResponsibleID uint                `json:"responsibleId"`
	Count         int64               `json:"count" gorm:"column:cnt"`
	Responsible   *models.Responsible `json:"responsible,omitempty" gorm:"-"`
}

// MonthlyGroup is one (month, year, responsible) bucket with its records.
type MonthlyGroup struct {
	Month         int                 `json:"month"`
	Year          int                 `json:"year"`
	ResponsibleID uint                `json:"responsibleId"`
	Responsible   *models.Responsible `json:"responsible,omitempty"`
	TotalAmount   float64             `json:"totalAmount"`
	Payments      []models.Tuition    `json:"payments"`
}

// MonthlyDebt sums the responsible's tuitions per calendar month of the due
// date, ascending by year then month.
func (s *ReportService) MonthlyDebt(ctx context.Context, responsibleID uint) ([]MonthlyDebt, error) {
	rows := make([]MonthlyDebt, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Tuition{}).
		Select("period_month AS month, period_year AS year, SUM(amount) AS total_debt").
		Where("responsible_id = ?", responsibleID).
		Group("period_year, period_month").
		Order("period_year, period_month").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly debt for responsible %d: %w", responsibleID, err)
	}
	return rows, nil
}

// LateInvoices lists every late tuition, oldest due date first.
func (s *ReportService) LateInvoices(ctx context.Context) ([]models.Tuition, error) {
	return s.invoicesByStatus(ctx, models.TuitionLate, "due_date ASC")
}

// PaidInvoices lists every paid tuition, most recently paid first.
func (s *ReportService) PaidInvoices(ctx context.Context) ([]models.Tuition, error) {
	return s.invoicesByStatus(ctx, models.TuitionPaid, "payment_date DESC")
}

func (s *ReportService) invoicesByStatus(ctx context.Context, status, order string) ([]models.Tuition, error) {
	tuitions := make([]models.Tuition, 0)
	err := s.db.WithContext(ctx).
		Preload("Responsible").
		Preload("Enrollment").
		Where("status = ?", status).
		Order(order).
		Find(&tuitions).Error
	if err != nil {
		return nil, fmt.Errorf("listing %s tuitions: %w", status, err)
	}
	return tuitions, nil
}

// TotalEstimatedForCurrentMonth sums the amounts of all tuitions due in the
// month now falls in, regardless of status. The range is half-open on the
// next month, so the first and last instants of the month both count.
func (s *ReportService) TotalEstimatedForCurrentMonth(ctx context.Context, now time.Time) (float64, error) {
	start, end := monthBounds(now)

	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.Tuition{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("due_date >= ? AND due_date < ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("estimating current month total: %w", err)
	}
	return total, nil
}

// OnTimePayers ranks responsibles by paid tuition count, descending.
func (s *ReportService) OnTimePayers(ctx context.Context) ([]PayerCount, error) {
	return s.payersByStatus(ctx, models.TuitionPaid)
}

// MostLatePayers ranks responsibles by late tuition count, descending.
func (s *ReportService) MostLatePayers(ctx context.Context) ([]PayerCount, error) {
	return s.payersByStatus(ctx, models.TuitionLate)
}

func (s *ReportService) payersByStatus(ctx context.Context, status string) ([]PayerCount, error) {
	rows := make([]PayerCount, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Tuition{}).
		Select("responsible_id, COUNT(*) AS cnt").
		Where("status = ?", status).
		Group("responsible_id").
		Order("cnt DESC, responsible_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ranking %s payers: %w", status, err)
	}
	if err := s.populateResponsibles(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReportService) populateResponsibles(ctx context.Context, rows []PayerCount) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ResponsibleID)
	}

	var responsibles []models.Responsible
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&responsibles).Error; err != nil {
		return fmt.Errorf("loading responsibles for ranking: %w", err)
	}
	byID := make(map[uint]*models.Responsible, len(responsibles))
	for i := range responsibles {
		byID[responsibles[i].ID] = &responsibles[i]
	}
	for i := range rows {
		rows[i].Responsible = byID[rows[i].ResponsibleID]
	}
	return nil
}

// PendingForCurrentMonth groups the pending tuitions due in the month now
// falls in by (month, year, responsible), keeping the underlying records.
func (s *ReportService) PendingForCurrentMonth(ctx context.Context, now time.Time) ([]MonthlyGroup, error) {
	start, end := monthBounds(now)

	tuitions := make([]models.Tuition, 0)
	err := s.db.WithContext(ctx).
		Preload("Responsible").
		Where("status = ? AND due_date >= ? AND due_date < ?", models.TuitionPending, start, end).
		Order("period_year, period_month, responsible_id, id").
		Find(&tuitions).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending tuitions for current month: %w", err)
	}
	return groupByMonthAndResponsible(tuitions), nil
}

// GroupedByMonthAndResponsible is the same grouping across all history,
// unfiltered by status.
func (s *ReportService) GroupedByMonthAndResponsible(ctx context.Context) ([]MonthlyGroup, error) {
	tuitions := make([]models.Tuition, 0)
	err := s.db.WithContext(ctx).
		Preload("Responsible").
		Order("period_year, period_month, responsible_id, id").
		Find(&tuitions).Error
	if err != nil {
		return nil, fmt.Errorf("listing tuitions for grouped report: %w", err)
	}
	return groupByMonthAndResponsible(tuitions), nil
}

// groupByMonthAndResponsible folds an already sorted tuition list into
// (year, month, responsible) buckets; input order is preserved, so the
// buckets come out sorted by year then month.
func groupByMonthAndResponsible(tuitions []models.Tuition) []MonthlyGroup {
	groups := make([]MonthlyGroup, 0)
	index := make(map[[3]uint]int)

	for _, tuition := range tuitions {
		key := [3]uint{uint(tuition.PeriodYear), uint(tuition.PeriodMonth), tuition.ResponsibleID}
		i, ok := index[key]
		if !ok {
			groups = append(groups, MonthlyGroup{
				Month:         tuition.PeriodMonth,
				Year:          tuition.PeriodYear,
				ResponsibleID: tuition.ResponsibleID,
				Responsible:   tuition.Responsible,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].TotalAmount += tuition.Amount
		groups[i].Payments = append(groups[i].Payments, tuition)
	}
	return groups
}

// monthBounds returns the first instant of now's month and of the next one.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
