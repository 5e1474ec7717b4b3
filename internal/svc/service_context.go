package svc

import (
	"dex-parser-sol/internal/config"
	"dex-parser-sol/internal/mq"
	"dex-parser-sol/internal/parser"
	"dex-parser-sol/internal/progress"
	"dex-parser-sol/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 索引器服务共享资源。
type ServiceContext struct {
	Config   config.Config
	Parser   *parser.Parser
	Producer *kafka.Producer
	Progress *progress.RedisProgressStore
}

// NewServiceContext 创建服务上下文。
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	producer, err := mq.NewKafkaProducer(c.KafkaConf)
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
	})

	return &ServiceContext{
		Config:   c,
		Parser:   parser.New(),
		Producer: producer,
		Progress: progress.NewRedisProgressStore(rdb),
	}, nil
}

// Close 释放外部资源。
func (sc *ServiceContext) Close() {
	if sc.Producer != nil {
		sc.Producer.Close()
	}
}
