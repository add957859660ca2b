package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ad/go-telegram-progress-stats/internal/models"
)

// ProgressFilter narrows the user_progress scan.
type ProgressFilter struct {
	// BotName restricts the scan to one bot when set.
	BotName      string
	ExcludeBots  []string
	ExcludeUsers []string
	OrderByStep  bool
}

type ProgressRepository struct {
	queue   *DBQueue
	dialect Dialect
}

func NewProgressRepository(queue *DBQueue, dialect Dialect) *ProgressRepository {
	return &ProgressRepository{queue: queue, dialect: dialect}
}

func BuildProgressQuery(dialect Dialect, f ProgressFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	bind := func(v string) string {
		args = append(args, v)
		return dialect.Placeholder(len(args))
	}

	if f.BotName != "" {
		conds = append(conds, "bot_name = "+bind(f.BotName))
	}
	for _, name := range f.ExcludeBots {
		conds = append(conds, "bot_name != "+bind(name))
	}
	for _, name := range f.ExcludeUsers {
		conds = append(conds, "(username IS NULL OR username != "+bind(name)+")")
	}

	var sb strings.Builder
	sb.WriteString("SELECT bot_name, username, last_step FROM user_progress")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	if f.OrderByStep {
		sb.WriteString(" ORDER BY last_step DESC")
	}
	return sb.String(), args
}

func (r *ProgressRepository) List(ctx context.Context, f ProgressFilter) ([]models.ProgressRecord, error) {
	query, args := BuildProgressQuery(r.dialect, f)

	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sql.DB) (interface{}, error) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var records []models.ProgressRecord
		for rows.Next() {
			var botName, username, lastStep sql.NullString
			if err := rows.Scan(&botName, &username, &lastStep); err != nil {
				return nil, err
			}
			records = append(records, models.ProgressRecord{
				BotName:  botName.String,
				Username: username.String,
				LastStep: lastStep.String,
			})
		}
		return records, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list user progress: %w", err)
	}
	return result.([]models.ProgressRecord), nil
}
