package app

import (
	"context"
	"time"

	"skillup_backend/internal/cache"
	"skillup_backend/internal/config"
	"skillup_backend/internal/email"
	"skillup_backend/internal/events"
	"skillup_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// newEmailProvider - SMTP через gomail, либо запись писем в лог, если SMTP не настроен
func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		return nil, err
	}

	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host is not set, emails will only be logged")
		return email.NewLogProvider(templates), nil
	}

	return email.NewGomailProvider(&email.SMTPConfig{
		Host:         cfg.Email.SMTPHost,
		Port:         cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		UseSSL:       cfg.Email.UseSSL,
		TemplatesDir: cfg.Email.TemplatesDir,
	}, templates)
}

// newRedisClient возвращает nil, если Redis не настроен или не отвечает
func newRedisClient(cfg *config.Config) redis.UniversalClient {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis is not configured, order cache and rate limiting are disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, continuing without it", "addr", cfg.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return client
}

func newOrderCache(client redis.UniversalClient) cache.OrderCache {
	if client == nil {
		return cache.NopOrderCache{}
	}
	return cache.NewRedisOrderCache(client)
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("Kafka brokers not set, domain events are disabled")
		return events.NopPublisher{}
	}
	logger.Info("Kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
