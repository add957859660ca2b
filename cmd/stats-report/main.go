package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ad/go-telegram-progress-stats/internal/config"
	"github.com/ad/go-telegram-progress-stats/internal/db"
	"github.com/ad/go-telegram-progress-stats/internal/models"
	"github.com/ad/go-telegram-progress-stats/internal/services"
	_ "github.com/joho/godotenv/autoload"
)

// stats-report prints the all-bots listing to stdout, split the same way
// the bot splits long replies.
func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "query timeout")
	flag.Parse()

	cfg, err := config.LoadReport()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sqlDB, dialect, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	filter := db.ProgressFilter{
		ExcludeBots:  cfg.ExcludeBots,
		ExcludeUsers: cfg.ExcludeUsers,
		OrderByStep:  cfg.OrderByStep,
	}
	if cfg.Mode == models.ModeSingle {
		filter.BotName = cfg.BotName
	}
	statsService := services.NewStatisticsService(db.NewProgressRepository(dbQueue, dialect), filter)

	if err := writeReport(ctx, os.Stdout, statsService, cfg); err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}
}

func writeReport(ctx context.Context, w io.Writer, statsService *services.StatisticsService, cfg *config.Config) error {
	snapshot, err := statsService.Snapshot(ctx)
	if err != nil {
		return err
	}

	if snapshot.IsEmpty() {
		_, err := fmt.Fprintln(w, services.NoDataMessage)
		return err
	}

	chunks := services.SplitText(services.FormatAllBots(snapshot), cfg.MaxMessageLen, cfg.SplitStrategy)
	for i, chunk := range chunks {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n--- %d/%d ---\n", i+1, len(chunks)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
	}
	return nil
}
