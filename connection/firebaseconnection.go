package connection

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// FCMConnection builds the Firebase Cloud Messaging client from the service
// account file named by FIREBASE_SERVICE_ACCOUNT_PATH. A missing credentials
// file is not fatal: push notifications are simply disabled (nil client).
func FCMConnection(ctx context.Context) (*messaging.Client, error) {
	credPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if credPath == "" {
		credPath = "taskhub-firebase.json"
	}
	if _, err := os.Stat(credPath); err != nil {
		log.Printf("Firebase credentials file not found at %s; FCM notifications will be disabled", credPath)
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("create messaging client: %w", err)
	}
	fmt.Println("FCM connection successful")
	return client, nil
}
