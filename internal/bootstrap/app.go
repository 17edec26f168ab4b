package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"moodmatch/internal/config"
	"moodmatch/internal/logging"
	"moodmatch/internal/platform/database"
	rabbitmqClient "moodmatch/internal/platform/rabbitmq"
	redisClient "moodmatch/internal/platform/redis"
	"moodmatch/internal/repository"
	"moodmatch/internal/worker"
)

type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	MQConn     *amqp.Connection
	Publisher  *rabbitmqClient.ScanPublisher
	ScanWorker *worker.ScanRecordWorker

	*Vision

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	db, err := database.Open(ctx, cfg.Database.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	a.DB = db
	if err := database.Migrate(db); err != nil {
		return err
	}

	if a.Redis, err = redisClient.New(ctx, cfg.Redis); err != nil {
		return err
	}

	if a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.App.Name); err != nil {
		return err
	}
	a.Publisher = rabbitmqClient.NewScanPublisher(a.MQConn, cfg.RabbitMQ.ScanRecordQueue)

	a.ScanWorker = worker.NewScanRecordWorker(a.MQConn, repository.NewScanRepository(db), cfg.RabbitMQ.ScanRecordQueue)
	if err := a.ScanWorker.Start(ctx); err != nil {
		return fmt.Errorf("start scan record worker failed: %w", err)
	}

	if a.Vision, err = NewVision(cfg); err != nil {
		return err
	}

	logging.Info().Str("env", cfg.App.Env).Str("database", cfg.Database.Driver).
		Bool("model_loaded", a.Models.IsLoaded()).Str("taxonomy", a.Taxonomy.Active()).
		Msg("application bootstrapped")
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Vision != nil && a.Models != nil {
		a.Models.Teardown()
	}
	if a.ScanWorker != nil {
		a.ScanWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
