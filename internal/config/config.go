package config

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaConfig Kafka 生产者相关配置
type KafkaConfig struct {
	Brokers    string `yaml:"brokers"`    // broker 地址，多个用英文逗号分隔
	BatchSize  int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs   int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）
	Topic      string `yaml:"topic"`      // 解析结果 topic
	Partitions int    `yaml:"partitions"` // topic 分区数

	SendTimeoutMs int `yaml:"send_timeout_ms"` // 单条消息发送并等待 ack 的超时（毫秒）
}

// ParserConfig 解析行为配置，映射为 core.Option。
type ParserConfig struct {
	DisableUnknownDEX bool     `yaml:"disable_unknown_dex"` // 关闭未注册程序兜底合成
	RawAmount         bool     `yaml:"raw_amount"`          // UiAmount 保持原始整数
	ProgramIDs        []string `yaml:"program_ids"`         // 白名单
	IgnoreProgramIDs  []string `yaml:"ignore_program_ids"`  // 黑名单
}

func (c *ParserConfig) ToOption() core.Option {
	opt := core.DefaultOption()
	opt.TryUnknownDEX = !c.DisableUnknownDEX
	opt.RawAmount = c.RawAmount
	opt.ProgramIDs = c.ProgramIDs
	opt.IgnoreProgramIDs = c.IgnoreProgramIDs
	return opt
}

// Config 索引器服务主配置。
type Config struct {
	LogConf    LogConfig    `yaml:"logger"`
	KafkaConf  KafkaConfig  `yaml:"kafka_producer"`
	ParserConf ParserConfig `yaml:"parser"`

	RedisAddr string `yaml:"redis_addr"`

	// RPC 节点地址，用于 slot 空洞校验；留空则关闭校验
	RpcEndpoint string `yaml:"rpc_endpoint"`

	// gRPC 客户端连接相关配置
	Grpc struct {
		Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
		XToken   string `yaml:"x_token"`  // x-token 认证

		// 应用级逻辑心跳（ping）配置
		StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"`

		// gRPC Keepalive 底层连接检测配置
		KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"`
		KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`

		// gRPC 窗口大小调优（用于大数据流推送）
		InitialWindowSize     int `yaml:"initial_window_size"`
		InitialConnWindowSize int `yaml:"initial_conn_window_size"`

		// 消息体大小限制
		MaxCallSendMsgSize int `yaml:"max_call_send_msg_size"`
		MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"`

		// 超时与重连策略
		ReconnectIntervalSec int `yaml:"reconnect_interval_sec"`
		ConnectTimeoutSec    int `yaml:"connect_timeout_sec"`
		SendTimeoutSec       int `yaml:"send_timeout_sec"`
		RecvTimeoutSec       int `yaml:"recv_timeout_sec"`
		BlockRecvTimeoutSec  int `yaml:"block_recv_timeout_sec"`
	} `yaml:"grpc"`
}
