package model

import "time"

// FCMDevice is a registered push-notification target for a user. A token
// moves to whichever user registered it last (device reassignment).
type FCMDevice struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	FCMToken   string    `gorm:"size:500;not null;uniqueIndex" json:"-"`
	DeviceName string    `gorm:"size:200" json:"device_name"`
	DeviceType string    `gorm:"size:50" json:"device_type"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FCMDevice) TableName() string {
	return "fcm_devices"
}
