package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/go-telegram-progress-stats/internal/config"
	"github.com/ad/go-telegram-progress-stats/internal/db"
	"github.com/ad/go-telegram-progress-stats/internal/handlers"
	"github.com/ad/go-telegram-progress-stats/internal/metrics"
	"github.com/ad/go-telegram-progress-stats/internal/models"
	"github.com/ad/go-telegram-progress-stats/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sqlDB, dialect, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := db.InitSchema(sqlDB); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(15*time.Second, httpClient))
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handler := buildHandler(b, cfg, dbQueue, dialect)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware)

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	log.Printf("Bot started. Mode: %s, DB: %s", cfg.Mode, dialect)

	b.Start(ctx)
}

func buildHandler(sender services.Sender, cfg *config.Config, dbQueue *db.DBQueue, dialect db.Dialect) *handlers.BotHandler {
	progressRepo := db.NewProgressRepository(dbQueue, dialect)
	statsService := services.NewStatisticsService(progressRepo, progressFilter(cfg))

	errorManager := services.NewErrorManager(sender, cfg.AdminID)
	msgManager := services.NewMessageManager(sender, errorManager)

	return handlers.NewBotHandler(errorManager, msgManager, statsService, handlers.Options{
		Mode:          cfg.Mode,
		BotName:       cfg.BotName,
		MenuWidth:     cfg.MenuWidth,
		MaxMessageLen: cfg.MaxMessageLen,
		SplitStrategy: cfg.SplitStrategy,
		SplitAll:      cfg.SplitAll,
	})
}

func progressFilter(cfg *config.Config) db.ProgressFilter {
	f := db.ProgressFilter{
		ExcludeBots:  cfg.ExcludeBots,
		ExcludeUsers: cfg.ExcludeUsers,
		OrderByStep:  cfg.OrderByStep,
	}
	if cfg.Mode == models.ModeSingle {
		f.BotName = cfg.BotName
	}
	return f
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Metrics server error: %v", err)
	}
}

func formatUser(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil && update.Message.From != nil {
			log.Printf("[MSG] from=%s text=%q", formatUser(*update.Message.From), update.Message.Text)
		}
		if update.CallbackQuery != nil {
			log.Printf("[CALLBACK] from=%s data=%q", formatUser(update.CallbackQuery.From), update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
