package services

import (
	"context"
	"fmt"
	"log"
	"taskhub/model"

	"firebase.google.com/go/messaging"
	"gorm.io/gorm"
)

// Notifier sends task-assignment push notifications over FCM. It is
// constructed once at startup and injected into the controllers; a nil
// messaging client disables sending (every attempt becomes a logged no-op).
type Notifier struct {
	DB     *gorm.DB
	Client *messaging.Client
}

func NewNotifier(db *gorm.DB, client *messaging.Client) *Notifier {
	return &Notifier{DB: db, Client: client}
}

// NotifyAssignment tells the user they were assigned to the task. Best
// effort: missing devices are a no-op, send failures are logged and
// swallowed. Callers invoke this only after the assignment transaction has
// committed. Returns true when at least one message was delivered.
func (n *Notifier) NotifyAssignment(ctx context.Context, userID uint, task *model.Task, actor *model.User) bool {
	var devices []model.FCMDevice
	if err := n.DB.Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		log.Printf("notify user %d: device lookup failed: %v", userID, err)
		return false
	}
	if len(devices) == 0 {
		return false
	}
	if n.Client == nil {
		log.Printf("notify user %d: FCM disabled, skipping %d device(s)", userID, len(devices))
		return false
	}

	title := "New Task Assigned"
	body := fmt.Sprintf("%s assigned you: %s", actor.FullName, task.TaskName)
	data := map[string]string{
		"task_id":  fmt.Sprintf("%d", task.ID),
		"priority": task.Priority,
	}

	delivered := false
	for _, device := range devices {
		msg := &messaging.Message{
			Notification: &messaging.Notification{Title: title, Body: body},
			Data:         data,
			Token:        device.FCMToken,
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					ChannelID: "task_notifications",
				},
			},
		}
		if _, err := n.Client.Send(ctx, msg); err != nil {
			log.Printf("notify user %d: send failed: %v", userID, err)
			continue
		}
		delivered = true
	}
	return delivered
}

// NotifyAll fans NotifyAssignment out to every newly-assigned user. The
// actor's own assignment (self-assign) is skipped.
func (n *Notifier) NotifyAll(ctx context.Context, userIDs []uint, task *model.Task, actor *model.User) {
	for _, id := range userIDs {
		if id == actor.ID {
			continue
		}
		n.NotifyAssignment(ctx, id, task, actor)
	}
}
