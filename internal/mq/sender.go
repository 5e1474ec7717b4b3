package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaJob 一条待发送的消息
type KafkaJob struct {
	Topic     string
	Partition int32
	Value     []byte
}

// KafkaSendResult 单条消息的发送结果
type KafkaSendResult struct {
	Job *KafkaJob
	Err error
}

// BuildResultJobs 把一个区块的解析结果编码为 Kafka 消息。
// 分区按交易签名散列，同一笔交易的结果落在固定分区，下游按签名幂等消费。
// 无事件且无转账的结果直接跳过，不占用带宽。
func BuildResultJobs(topic string, partitions uint32, results []*core.Result) []*KafkaJob {
	jobs := make([]*KafkaJob, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		if result.State && len(result.Trades) == 0 && len(result.Liquidities) == 0 && len(result.Transfers) == 0 {
			continue
		}
		value, err := json.Marshal(result)
		if err != nil {
			continue
		}
		var signature string
		switch {
		case len(result.Trades) > 0:
			signature = result.Trades[0].Signature
		case len(result.Liquidities) > 0:
			signature = result.Liquidities[0].Signature
		default:
			signature = result.Msg
		}
		jobs = append(jobs, &KafkaJob{
			Topic:     topic,
			Partition: int32(utils.PartitionHashBytes([]byte(signature), partitions)),
			Value:     value,
		})
	}
	return jobs
}

// SendKafkaJobs 并发发送多条消息，支持外部 context 控制超时 / 取消。
func SendKafkaJobs(
	ctx context.Context,
	producer *kafka.Producer,
	jobs []*KafkaJob,
	perMessageTimeout time.Duration,
) (ok []*KafkaJob, failed []KafkaSendResult) {
	var wg sync.WaitGroup
	resultCh := make(chan KafkaSendResult, len(jobs)) // 缓冲避免阻塞

	for _, job := range jobs {
		wg.Add(1)
		go func(job *KafkaJob) {
			defer wg.Done()

			deliveryChan := make(chan kafka.Event, 1)
			err := producer.Produce(&kafka.Message{
				TopicPartition: kafka.TopicPartition{
					Topic:     &job.Topic,
					Partition: job.Partition,
				},
				Value: job.Value,
			}, deliveryChan)
			if err != nil {
				resultCh <- KafkaSendResult{Job: job, Err: fmt.Errorf("produce error: %w", err)}
				return
			}

			select {
			case e, open := <-deliveryChan:
				if !open {
					resultCh <- KafkaSendResult{Job: job, Err: fmt.Errorf("delivery channel closed unexpectedly")}
					return
				}
				msg, isMsg := e.(*kafka.Message)
				if !isMsg {
					resultCh <- KafkaSendResult{Job: job, Err: fmt.Errorf("invalid message type: %T", e)}
					return
				}
				resultCh <- KafkaSendResult{Job: job, Err: msg.TopicPartition.Error}
			case <-time.After(perMessageTimeout):
				go safeDrain(deliveryChan)
				resultCh <- KafkaSendResult{Job: job, Err: fmt.Errorf("delivery timeout (>%v)", perMessageTimeout)}
			case <-ctx.Done():
				go safeDrain(deliveryChan)
				resultCh <- KafkaSendResult{Job: job, Err: fmt.Errorf("ctx cancelled: %w", ctx.Err())}
			}
		}(job)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		if res.Err != nil {
			failed = append(failed, res)
		} else {
			ok = append(ok, res.Job)
		}
	}
	return ok, failed
}

// safeDrain 确保超时后 deliveryChan 仍被消费，避免 Kafka 回调阻塞。
func safeDrain(ch <-chan kafka.Event) {
	defer func() {
		_ = recover()
	}()
	select {
	case <-ch:
	case <-time.After(30 * time.Second):
	}
}
