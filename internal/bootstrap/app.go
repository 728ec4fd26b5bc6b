package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"knowledgebot/internal/ai"
	"knowledgebot/internal/config"
	"knowledgebot/internal/model"
	mysqlClient "knowledgebot/internal/platform/mysql"
	rabbitmqClient "knowledgebot/internal/platform/rabbitmq"
	redisClient "knowledgebot/internal/platform/redis"
	"knowledgebot/internal/platform/upstash"
	"knowledgebot/internal/repository"
	"knowledgebot/internal/worker"
)

type App struct {
	Config      *config.Config
	Redis       *redis.Client
	MySQL       *gorm.DB
	MQConn      *amqp.Connection
	VectorIndex *upstash.Index
	LLMClient   *ai.Client
	AuditWorker *worker.AuditPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.AuditRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	auditRepo := repository.NewAuditRepository(mysqlDB)
	auditWorker := worker.NewAuditPersistWorker(mqConn, auditRepo, cfg.RabbitMQ.AuditQueue)
	if err := auditWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		Redis:       redisCli,
		MySQL:       mysqlDB,
		MQConn:      mqConn,
		VectorIndex: upstash.NewIndex(cfg.Vector.URL, cfg.Vector.Token),
		LLMClient:   ai.NewClient(),
		AuditWorker: auditWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
