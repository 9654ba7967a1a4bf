// school-control/internal/billing/scheduler.go

package billing

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultCronSpec fires at 02:00 on the first day of every month, the start
// of the billing period.
const DefaultCronSpec = "0 2 1 * *"

// StartTuitionCron wires the generator into a cron schedule read from
// TUITION_CRON (falling back to the monthly default) and starts it. The
// returned cron can be Stop()ed on shutdown.
func StartTuitionCron(generator *TuitionGenerator) (*cron.Cron, error) {
	spec := os.Getenv("TUITION_CRON")
	if spec == "" {
		spec = DefaultCronSpec
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		asOf := time.Now()
		slog.Info("Monthly tuition generation starting", "as_of", asOf)

		result, err := generator.RunMonthlyGeneration(context.Background(), asOf)
		if err != nil {
			slog.Error("Monthly tuition generation did not finish cleanly",
				"error", err, "created", result.Created, "failed", len(result.Failed))
			return
		}
		if len(result.Failed) > 0 {
			slog.Warn("Monthly tuition generation finished with failures",
				"created", result.Created, "failed_enrollments", result.Failed)
			return
		}
		slog.Info("Monthly tuition generation finished", "created", result.Created)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	slog.Info("Tuition generation scheduled", "cron", spec)
	return c, nil
}
