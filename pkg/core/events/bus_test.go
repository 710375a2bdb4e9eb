package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// receiveEvent 从订阅通道取出一个事件，超时则终止测试
func receiveEvent(t *testing.T, name string, messages <-chan *message.Message) *TaskEvent {
	t.Helper()
	select {
	case msg := <-messages:
		event, err := Decode(msg)
		if err != nil {
			t.Fatalf("%s解析事件失败: %v", name, err)
		}
		msg.Ack()
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("%s等待事件超时", name)
		return nil
	}
}

// TestBus_PublishSubscribe 测试事件发布订阅往返
func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(BusConfig{Buffer: 8})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	published := NewTaskEvent(EventTaskCreated, "task-1", "")
	if err := bus.Publish(published); err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	event := receiveEvent(t, "订阅者", messages)
	if event.Type != EventTaskCreated {
		t.Errorf("事件类型不匹配: %v", event.Type)
	}
	if event.TaskID != "task-1" {
		t.Errorf("Task ID不匹配: %v", event.TaskID)
	}
	if event.ID != published.ID {
		t.Errorf("事件ID不匹配: %v", event.ID)
	}
}

// TestBus_MultipleSubscribers 测试多订阅者各自收到全量事件
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(BusConfig{Buffer: 8})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}
	second, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	if err := bus.Publish(NewTaskEvent(EventDependencyAdded, "task-1", "task-2")); err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	for _, sub := range []struct {
		name string
		ch   <-chan *message.Message
	}{
		{"第一个订阅者", first},
		{"第二个订阅者", second},
	} {
		event := receiveEvent(t, sub.name, sub.ch)
		if event.Type != EventDependencyAdded {
			t.Errorf("%s事件类型不匹配: %v", sub.name, event.Type)
		}
		if event.RelatedID != "task-2" {
			t.Errorf("%s关联ID不匹配: %v", sub.name, event.RelatedID)
		}
	}
}

// TestBus_SubscribeCancel 测试取消订阅后通道关闭
func TestBus_SubscribeCancel(t *testing.T) {
	bus := NewBus(BusConfig{Buffer: 8})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	messages, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	cancel()

	select {
	case _, open := <-messages:
		if open {
			t.Error("取消后通道应关闭而不是继续投递")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("等待通道关闭超时")
	}
}
