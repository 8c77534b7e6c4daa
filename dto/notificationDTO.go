package dto

type RegisterTokenRequest struct {
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type"`
}

type RemoveTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}
