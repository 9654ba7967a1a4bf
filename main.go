// school-control/main.go
package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/clebrsonn/school-control-sub000/config"
	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/clebrsonn/school-control-sub000/internal/handlers"
	"github.com/clebrsonn/school-control-sub000/internal/routes"
	"github.com/clebrsonn/school-control-sub000/models"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	db := config.ConnectDB()
	rdb := config.ConnectRedis()

	err := db.AutoMigrate(
		&models.Responsible{},
		&models.Student{},
		&models.ClassPlan{},
		&models.Enrollment{},
		&models.Tuition{},
		&models.Discount{},
	)
	if err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	generator := billing.NewTuitionGenerator(db, envInt("TUITION_DUE_DAY", billing.DefaultDueDay), envDuration("BATCH_TIMEOUT", billing.DefaultBatchTimeout))
	discounts := billing.NewDiscountService(db, rdb)
	enrollments := billing.NewEnrollmentService(db, generator, discounts)
	reports := billing.NewReportService(db)

	scheduler, err := billing.StartTuitionCron(generator)
	if err != nil {
		slog.Error("Failed to schedule tuition generation", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, routes.Handlers{
		Enrollments: handlers.NewEnrollmentHandler(enrollments),
		Discounts:   handlers.NewDiscountHandler(db, discounts),
		Tuitions:    handlers.NewTuitionHandler(db, generator),
		Reports:     handlers.NewReportHandler(reports),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
