package models

import "time"

// TranslationRecord is the metadata row for one translated page in Firestore.
// The Firestore document ID doubles as the record ID, so it is not stored in
// the document body. Records are written once and never mutated; expiry is
// enforced at read time.
type TranslationRecord struct {
	ID             string    `firestore:"-" json:"id"`
	UserID         string    `firestore:"userId,omitempty" json:"userId,omitempty"`
	OriginalURL    string    `firestore:"originalUrl" json:"originalUrl"`
	TargetLanguage string    `firestore:"targetLanguage" json:"targetLanguage"`
	StoragePath    string    `firestore:"storagePath" json:"storagePath"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	ExpiresAt      time.Time `firestore:"expiresAt" json:"expiresAt"`
}

// Expired reports whether the record is logically dead at the given instant.
func (r *TranslationRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
