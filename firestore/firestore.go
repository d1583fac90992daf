package firestore

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/mager/moodboard/config"
)

// ProvideDB provides a firestore client
func ProvideDB(cfg config.Config) *firestore.Client {
	client, err := firestore.NewClient(context.TODO(), cfg.FirestoreProject)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	return client
}

var Options = ProvideDB
