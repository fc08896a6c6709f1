package main

import (
    "log"

    "github.com/classtrack/classtrack-back/internal/api"
    "github.com/classtrack/classtrack-back/internal/config"
    "github.com/classtrack/classtrack-back/internal/cron"
    "github.com/classtrack/classtrack-back/internal/db"
    "github.com/joho/godotenv"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, using system env")
    }

    cfg := config.Load()

    db.InitDB(cfg.DBUrl)

    r := api.SetupRouter(cfg)

    // Start cron jobs
    cron.StartJobs()

    log.Println("Server running on :" + cfg.Port)
    r.Run(":" + cfg.Port)
}
