package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/zetruc/pulse/internal/infrastructure/db/mongo"
	redisdb "github.com/zetruc/pulse/internal/infrastructure/db/redis"
)

// stores holds the open database connections.
type stores struct {
	mongo *mongo.Client
	db    *mongo.Database
	redis *goredis.Client
}

func openMongo(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
	return client, db, nil
}

func openStores(ctx context.Context) (*stores, error) {
	client, db, err := openMongo(ctx)
	if err != nil {
		return nil, err
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	return &stores{mongo: client, db: db, redis: rdb}, nil
}

func (s *stores) Close(ctx context.Context) {
	if err := s.redis.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if err := s.mongo.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}
