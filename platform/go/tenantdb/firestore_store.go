package tenantdb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is where the provisioning process writes per-user records.
const DefaultCollection = "users"

// FirestoreRecordStore reads tenant records from a Firestore collection keyed
// by user id. Read-only from this system's perspective.
type FirestoreRecordStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreRecordStore wraps a Firestore client. An empty collection name
// falls back to DefaultCollection.
func NewFirestoreRecordStore(client *firestore.Client, collection string) *FirestoreRecordStore {
	if client == nil {
		panic("firestore client is required")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreRecordStore{client: client, collection: collection}
}

// Lookup fetches the document for key, mapping Firestore's NotFound onto
// ErrRecordNotFound.
func (s *FirestoreRecordStore) Lookup(ctx context.Context, key string) (Record, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("firestore get %s/%s: %w", s.collection, key, err)
	}
	return Record(doc.Data()), nil
}
