package services

import (
	"context"
	"log"
	"time"

	"github.com/ad/go-telegram-progress-stats/internal/db"
	"github.com/ad/go-telegram-progress-stats/internal/metrics"
	"github.com/ad/go-telegram-progress-stats/internal/models"
)

type ProgressSource interface {
	List(ctx context.Context, f db.ProgressFilter) ([]models.ProgressRecord, error)
}

type StatisticsService struct {
	source ProgressSource
	filter db.ProgressFilter
}

func NewStatisticsService(source ProgressSource, filter db.ProgressFilter) *StatisticsService {
	return &StatisticsService{
		source: source,
		filter: filter,
	}
}

// Aggregate groups records by bot name, keeping row order within each bot.
func Aggregate(records []models.ProgressRecord) *models.StatsSnapshot {
	snapshot := models.NewStatsSnapshot()
	for _, rec := range records {
		snapshot.Add(rec)
	}
	return snapshot
}

// Snapshot reads the filtered rows and aggregates them. Every call runs a
// fresh query; nothing is cached between requests.
func (s *StatisticsService) Snapshot(ctx context.Context) (*models.StatsSnapshot, error) {
	start := time.Now()
	records, err := s.source.List(ctx, s.filter)
	metrics.RecordQuery(time.Since(start), err)
	if err != nil {
		log.Printf("[STATS] query failed: %v", err)
		return nil, err
	}
	return Aggregate(records), nil
}
