// school-control/internal/billing/discount.go

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const discountCacheTTL = 10 * time.Minute

// DiscountService computes the tuition discount a responsible is entitled
// to. Results are cached in Redis when a client is configured; the
// enrollment lifecycle invalidates the cache whenever a student count may
// have changed.
type DiscountService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDiscountService(db *gorm.DB, rdb *redis.Client) *DiscountService {
	return &DiscountService{db: db, rdb: rdb}
}

// SiblingDiscount returns the tuition-fee discount for the responsible: 0
// unless they have more than one student, otherwise the value of the first
// unexpired tuition-fee discount rule. A rule with a formula is evaluated
// with the parameters "students" and "value".
//
// Only the tuition-fee type is applied here. The enrollment-fee type is
// stored but intentionally unused; see the TODO in EnrollmentService.Enroll.
func (s *DiscountService) SiblingDiscount(ctx context.Context, responsibleID uint) (float64, error) {
	if cached, ok := s.cachedDiscount(ctx, responsibleID); ok {
		return cached, nil
	}

	var responsible models.Responsible
	err := s.db.WithContext(ctx).Preload("Students").First(&responsible, responsibleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: responsible %d", ErrNotFound, responsibleID)
		}
		return 0, err
	}

	studentCount := len(responsible.Students)
	if studentCount <= 1 {
		s.cacheDiscount(ctx, responsibleID, 0)
		return 0, nil
	}

	var discount models.Discount
	err = s.db.WithContext(ctx).
		Where("type = ? AND (valid_until IS NULL OR valid_until >= ?)", models.DiscountTuitionFee, time.Now()).
		Order("id").
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Siblings, but no discount rule configured.
			s.cacheDiscount(ctx, responsibleID, 0)
			return 0, nil
		}
		return 0, err
	}

	value, err := s.evaluate(&discount, studentCount)
	if err != nil {
		return 0, err
	}

	s.cacheDiscount(ctx, responsibleID, value)
	return value, nil
}

// evaluate resolves the discount value, running the configured formula when
// one is present.
func (s *DiscountService) evaluate(discount *models.Discount, studentCount int) (float64, error) {
	if discount.Formula == "" {
		return discount.Value, nil
	}

	expression, err := govaluate.NewEvaluableExpression(discount.Formula)
	if err != nil {
		return 0, fmt.Errorf("%w: bad formula on discount %q: %v", ErrValidation, discount.Name, err)
	}

	parameters := map[string]interface{}{
		"students": float64(studentCount),
		"value":    discount.Value,
	}
	result, err := expression.Evaluate(parameters)
	if err != nil {
		return 0, fmt.Errorf("%w: formula on discount %q did not evaluate: %v", ErrValidation, discount.Name, err)
	}

	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: formula on discount %q is not numeric", ErrValidation, discount.Name)
	}
	return value, nil
}

// InvalidateResponsible drops the cached discount for one responsible.
func (s *DiscountService) InvalidateResponsible(ctx context.Context, responsibleID uint) {
	if s.rdb == nil {
		return
	}
	key := discountCacheKey(responsibleID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		slog.Warn("Failed to invalidate discount cache", "error", err, "responsible_id", responsibleID)
	}
}

func (s *DiscountService) cachedDiscount(ctx context.Context, responsibleID uint) (float64, bool) {
	if s.rdb == nil {
		return 0, false
	}
	raw, err := s.rdb.Get(ctx, discountCacheKey(responsibleID)).Result()
	if err != nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (s *DiscountService) cacheDiscount(ctx context.Context, responsibleID uint, value float64) {
	if s.rdb == nil {
		return
	}
	key := discountCacheKey(responsibleID)
	if err := s.rdb.Set(ctx, key, strconv.FormatFloat(value, 'f', -1, 64), discountCacheTTL).Err(); err != nil {
		slog.Warn("Failed to cache discount", "error", err, "responsible_id", responsibleID)
	}
}

func discountCacheKey(responsibleID uint) string {
	return fmt.Sprintf("responsible:%d:discount", responsibleID)
}
