package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ad/go-telegram-progress-stats/internal/config"
	"github.com/ad/go-telegram-progress-stats/internal/db"
	"github.com/ad/go-telegram-progress-stats/internal/models"
	"github.com/ad/go-telegram-progress-stats/internal/services"
)

type staticSource []models.ProgressRecord

func (s staticSource) List(_ context.Context, _ db.ProgressFilter) ([]models.ProgressRecord, error) {
	return s, nil
}

func TestWriteReport(t *testing.T) {
	source := staticSource{
		{BotName: "A", Username: "u1", LastStep: "s1"},
		{BotName: "B", Username: "u2", LastStep: "s2"},
	}
	var buf bytes.Buffer

	err := writeReport(context.Background(), &buf, services.NewStatisticsService(source, db.ProgressFilter{}), config.Default())
	if err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Статистика для бота: A") || !strings.Contains(out, "Статистика для бота: B") {
		t.Errorf("Expected both bots in report: %q", out)
	}
	if strings.Contains(out, "---") {
		t.Error("Short report should not be split")
	}
}

func TestWriteReportSplitsLongOutput(t *testing.T) {
	var source staticSource
	for i := 0; i < 100; i++ {
		source = append(source, models.ProgressRecord{BotName: "A", Username: "someone", LastStep: "step"})
	}
	cfg := config.Default()
	cfg.MaxMessageLen = 500
	var buf bytes.Buffer

	if err := writeReport(context.Background(), &buf, services.NewStatisticsService(source, db.ProgressFilter{}), cfg); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "--- 2/") {
		t.Error("Expected chunk separators in long report")
	}
}

func TestWriteReportNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(context.Background(), &buf, services.NewStatisticsService(staticSource{}, db.ProgressFilter{}), config.Default()); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != services.NoDataMessage {
		t.Errorf("Expected no-data message, got %q", buf.String())
	}
}
