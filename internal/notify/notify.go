// Package notify 提供排班结果通知派发
// 通知是尽力而为的旁路：排班成功与否绝不取决于通知是否送达
package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/yipai/yipai/internal/metrics"
	"github.com/yipai/yipai/pkg/logger"
	"github.com/yipai/yipai/pkg/model"
)

// Event 通知事件
type Event struct {
	Kind       string    `json:"kind"` // schedule_created/shift_assigned
	RunID      uuid.UUID `json:"run_id,omitempty"`
	EmployeeID uuid.UUID `json:"employee_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	Message    string    `json:"message"`
}

// 事件类型
const (
	EventScheduleCreated = "schedule_created"
	EventShiftAssigned   = "shift_assigned"
)

// Sender 通知发送端（短信、站内信等具体渠道实现该接口）
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Dispatcher 异步通知派发器
// 缓冲满时丢弃事件并记日志，绝不阻塞排班主流程
type Dispatcher struct {
	sender Sender
	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher 创建通知派发器并启动后台消费
func NewDispatcher(sender Sender, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	d := &Dispatcher{
		sender: sender,
		events: make(chan Event, bufferSize),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Publish 投递事件，缓冲满时丢弃
func (d *Dispatcher) Publish(event Event) {
	select {
	case d.events <- event:
	default:
		metrics.RecordNotifyEvent(event.Kind, "dropped")
		logger.Warn().
			Str("kind", event.Kind).
			Str("run_id", event.RunID.String()).
			Msg("通知缓冲已满，事件被丢弃")
	}
}

// PublishRun 为一次排班运行投递通知：整体事件加逐人事件
func (d *Dispatcher) PublishRun(run *model.ScheduleRun) {
	d.Publish(Event{
		Kind:    EventScheduleCreated,
		RunID:   run.ID,
		Message: "排班已生成",
	})
	for _, a := range run.Assignments {
		d.Publish(Event{
			Kind:       EventShiftAssigned,
			RunID:      run.ID,
			EmployeeID: a.EmployeeID,
			Date:       a.Date,
			Message:    "您有新的班次安排",
		})
	}
}

// Close 停止派发并等待已入队事件处理完
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.events)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.events {
		if d.sender == nil {
			continue
		}
		if err := d.sender.Send(context.Background(), event); err != nil {
			// 发送失败只记日志，不重试不上抛
			metrics.RecordNotifyEvent(event.Kind, "failed")
			logger.Warn().
				Err(err).
				Str("kind", event.Kind).
				Str("employee_id", event.EmployeeID.String()).
				Msg("通知发送失败")
			continue
		}
		metrics.RecordNotifyEvent(event.Kind, "sent")
	}
}

// LogSender 仅写日志的发送端，开发环境与测试使用
type LogSender struct{}

// Send 把事件打到日志
func (LogSender) Send(_ context.Context, event Event) error {
	logger.Info().
		Str("kind", event.Kind).
		Str("run_id", event.RunID.String()).
		Str("employee_id", event.EmployeeID.String()).
		Str("date", event.Date).
		Msg(event.Message)
	return nil
}
