// Package store holds the persistence adapters: translation metadata in
// Firestore and page payloads in Cloud Storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alexanderkoo04/language/internal/models"
)

// ErrNotFound is returned for records that are missing or expired. Callers
// cannot tell the two apart, which keeps expired content unguessable.
var ErrNotFound = errors.New("translation not found")

const (
	guestTTL = 24 * time.Hour
	userTTL  = 30 * 24 * time.Hour
)

// RecordStore persists TranslationRecords in a Firestore collection.
type RecordStore struct {
	client     *firestore.Client
	collection string
	log        *zap.Logger
	now        func() time.Time
	load       func(ctx context.Context, id string) (*models.TranslationRecord, error)
}

// NewRecordStore creates a record store over the given collection.
func NewRecordStore(client *firestore.Client, collection string, log *zap.Logger) *RecordStore {
	s := &RecordStore{
		client:     client,
		collection: collection,
		log:        log,
		now:        time.Now,
	}
	s.load = s.loadDoc
	return s
}

// expiryFor computes the record lifetime: 30 days for an identified user,
// 24 hours for a guest.
func expiryFor(userID string, createdAt time.Time) time.Time {
	if userID != "" {
		return createdAt.Add(userTTL)
	}
	return createdAt.Add(guestTTL)
}

// Create inserts a new record and returns it with its generated ID. The
// record is written exactly once and never mutated afterwards.
func (s *RecordStore) Create(ctx context.Context, userID, originalURL, targetLanguage, storagePath string) (*models.TranslationRecord, error) {
	createdAt := s.now().UTC()
	rec := &models.TranslationRecord{
		UserID:         userID,
		OriginalURL:    originalURL,
		TargetLanguage: targetLanguage,
		StoragePath:    storagePath,
		CreatedAt:      createdAt,
		ExpiresAt:      expiryFor(userID, createdAt),
	}

	doc := s.client.Collection(s.collection).NewDoc()
	if _, err := doc.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create translation record: %w", err)
	}
	rec.ID = doc.ID

	s.log.Info("translation record created",
		zap.String("id", rec.ID), zap.Time("expiresAt", rec.ExpiresAt))
	return rec, nil
}

// GetByID fetches a record and enforces expiry at read time: once the current
// time passes expiresAt the record behaves as not found, even though the row
// may still physically exist until a separate reclamation removes it.
func (s *RecordStore) GetByID(ctx context.Context, id string) (*models.TranslationRecord, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return rec, nil
}

// loadDoc fetches and decodes the raw document, with no expiry check.
func (s *RecordStore) loadDoc(ctx context.Context, id string) (*models.TranslationRecord, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch translation record %s: %w", id, err)
	}

	var rec models.TranslationRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode translation record %s: %w", id, err)
	}
	rec.ID = snap.Ref.ID
	return &rec, nil
}

// ListByUser returns all records for a user, newest first. Expired records
// are included; the dashboard shows them with their past expiry.
func (s *RecordStore) ListByUser(ctx context.Context, userID string) ([]models.TranslationRecord, error) {
	iter := s.client.Collection(s.collection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var records []models.TranslationRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list translations for user %s: %w", userID, err)
		}

		var rec models.TranslationRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode translation record %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}
