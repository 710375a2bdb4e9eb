package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicTaskEvents Task事件主题
const TopicTaskEvents = "task.events"

// BusConfig 事件总线配置
type BusConfig struct {
	Buffer int  // 订阅者通道缓冲区大小
	Debug  bool // 是否输出watermill调试日志
}

// Bus 进程内事件总线（对外导出）
// 基于watermill的gochannel实现，引擎在每次成功变更后发布事件，
// WebSocket等传输层订阅后推送给外部消费者
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus 创建事件总线
func NewBus(cfg BusConfig) *Bus {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	logger := watermill.NewStdLogger(cfg.Debug, false)
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.Buffer),
	}, logger)
	return &Bus{
		pubsub: pubsub,
		logger: logger,
	}
}

// Publish 发布事件到总线
func (b *Bus) Publish(event *TaskEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicTaskEvents, msg); err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}
	return nil
}

// Subscribe 订阅事件流
// ctx取消后订阅自动终止，通道关闭
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := b.pubsub.Subscribe(ctx, TopicTaskEvents)
	if err != nil {
		return nil, fmt.Errorf("订阅事件失败: %w", err)
	}
	return messages, nil
}

// Close 关闭事件总线
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Decode 将消息负载还原为TaskEvent（对外导出）
func Decode(msg *message.Message) (*TaskEvent, error) {
	var event TaskEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("解析事件失败: %w", err)
	}
	return &event, nil
}
