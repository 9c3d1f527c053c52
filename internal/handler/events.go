package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/lifecycle"
)

// 班次时间在通知中的展示格式（UTC）
const eventTimeLayout = "2006-01-02 15:04 MST"

// publishEvent 把生命周期事件投递到消息队列，由 notifier 负责后续的邮件发送。
// 事件投递在事务提交之后，通知系统不参与引擎自身的原子性
func (h *Handler) publishEvent(event domain.LifecycleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.eventChannel.PublishWithContext(
		ctx,
		"",
		"lifecycle_events",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// publishEventOrLog 用于成功响应已经确定、事件投递失败只记日志不影响调用方的场景
func (h *Handler) publishEventOrLog(event domain.LifecycleEvent) {
	if err := h.publishEvent(event); err != nil {
		slog.Error("生命周期事件投递失败", "type", event.Type, "error", err)
	}
}

// notifyApplicant 给申请人发录用或拒绝通知，收件人信息查不到时只记日志
func (h *Handler) notifyApplicant(shift *domain.Shift, app *domain.Application) {
	user, err := h.repository.GetUserByID(app.UserID)
	if err != nil {
		slog.Error("无法获取申请人信息", "userID", app.UserID, "error", err)
		return
	}

	var event domain.LifecycleEvent
	switch app.Status {
	case domain.ApplicationStatusAccepted:
		event = domain.LifecycleEvent{
			Type: domain.EventTypeApplicationAccepted,
			To:   user.Email,
			Data: domain.ApplicationAcceptedEventData{
				FullName:   user.FullName,
				ShiftTitle: shift.Title,
				StartTime:  shift.StartTime.UTC().Format(eventTimeLayout),
				EndTime:    shift.EndTime.UTC().Format(eventTimeLayout),
				Location:   shift.Location,
				HourlyRate: shift.HourlyRate,
			},
		}
	case domain.ApplicationStatusRejected:
		event = domain.LifecycleEvent{
			Type: domain.EventTypeApplicationRejected,
			To:   user.Email,
			Data: domain.ApplicationRejectedEventData{
				FullName:   user.FullName,
				ShiftTitle: shift.Title,
			},
		}
	default:
		return
	}

	h.publishEventOrLog(event)
}

func (h *Handler) notifyDecision(result *lifecycle.DecisionResult) {
	h.notifyApplicant(result.Shift, result.Application)
	for _, rejected := range result.RejectedApplications {
		h.notifyApplicant(result.Shift, rejected)
	}
}

func (h *Handler) notifyShiftCancelled(shift *domain.Shift, reason string, apps []*domain.Application) {
	for _, app := range apps {
		user, err := h.repository.GetUserByID(app.UserID)
		if err != nil {
			slog.Error("无法获取申请人信息", "userID", app.UserID, "error", err)
			continue
		}

		h.publishEventOrLog(domain.LifecycleEvent{
			Type: domain.EventTypeShiftCancelled,
			To:   user.Email,
			Data: domain.ShiftCancelledEventData{
				FullName:   user.FullName,
				ShiftTitle: shift.Title,
				StartTime:  shift.StartTime.UTC().Format(eventTimeLayout),
				Reason:     reason,
			},
		})
	}
}

// handleSlotFreed 处理名额空出：发出 slot_freed 事件并尝试从候补队列递补。
// 递补是一锤子买卖——候补记录先出队，之后的自动申请或录用失败时不会放回队列，
// 下一次名额空出时再处理变短后的队列
func (h *Handler) handleSlotFreed(shift *domain.Shift) {
	h.publishEventOrLog(domain.LifecycleEvent{
		Type: domain.EventTypeSlotFreed,
		Data: domain.SlotFreedEventData{
			ShiftID:    shift.ID,
			ShiftTitle: shift.Title,
		},
	})

	entry, err := h.repository.PopWaitlistEntry(shift)
	if err != nil {
		slog.Error("候补出队失败", "shiftID", shift.ID, "error", err)
		return
	}
	if entry == nil {
		// 没有候补，名额留给正常的申请流程
		return
	}

	result, err := h.repository.AutoAcceptFromStandby(shift, entry.UserID)
	if err != nil {
		slog.Warn("候补自动递补失败", "shiftID", shift.ID, "userID", entry.UserID, "error", err)
		return
	}

	user, err := h.repository.GetUserByID(entry.UserID)
	if err != nil {
		slog.Error("无法获取候补人员信息", "userID", entry.UserID, "error", err)
		return
	}

	h.publishEventOrLog(domain.LifecycleEvent{
		Type: domain.EventTypeStandbyPromoted,
		To:   user.Email,
		Data: domain.StandbyPromotedEventData{
			FullName:   user.FullName,
			ShiftTitle: shift.Title,
			StartTime:  shift.StartTime.UTC().Format(eventTimeLayout),
			EndTime:    shift.EndTime.UTC().Format(eventTimeLayout),
			Location:   shift.Location,
		},
	})

	for _, rejected := range result.RejectedApplications {
		h.notifyApplicant(shift, rejected)
	}
}
