package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/classtrack/classtrack-back/internal/db"
	"github.com/classtrack/classtrack-back/internal/models"
)

func StartJobs() {
	c := cron.New()

	c.AddFunc("@daily", func() {
		log.Println("Running attendance digest job...")

		day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

		counts, err := db.CountAttendanceByStatus(context.Background(), day)
		if err != nil {
			log.Println("❌ Failed to count attendance:", err)
			return
		}

		log.Printf("✅ Attendance %s: present=%d absent=%d late=%d\n",
			day.Format("2006-01-02"),
			counts[models.StatusPresent],
			counts[models.StatusAbsent],
			counts[models.StatusLate],
		)
	})

	c.Start()
}
