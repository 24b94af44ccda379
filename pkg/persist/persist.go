// Package persist stores editor documents: the style, schedule and element
// customizations of one template for one owner.
//
// The core treats persistence as an opaque get/put pair keyed by a document
// key. Three backends implement [Store]:
//   - [MemoryStore]: in-process map for tests and the HTTP server default
//   - [FileStore]: one JSON file per key, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// # Usage
//
//	store, err := persist.NewFileStore("")  // ~/.config/storyboard/documents/
//	doc, err := store.Get(ctx, persist.Key("studio-42", "pulse"))
//	if doc == nil {
//	    // nothing saved yet
//	}
package persist

import (
	"context"
	"time"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// Document is the persisted aggregate of one editor session.
type Document struct {
	Key           string            `json:"key" bson:"_id"`
	TemplateID    string            `json:"templateId" bson:"templateId"`
	Style         style.Style       `json:"style" bson:"style"`
	Schedule      schedule.Schedule `json:"schedule" bson:"schedule"`
	ElementStyles elements.Styles   `json:"elementStyles,omitempty" bson:"elementStyles,omitempty"`
	Visible       []elements.ID     `json:"visible,omitempty" bson:"visible,omitempty"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by key.
	// Returns nil, nil if the document doesn't exist.
	Get(ctx context.Context, key string) (*Document, error)

	// Put stores a document, replacing any previous version.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Key builds the document key for an owner and template.
func Key(owner, templateID string) string {
	if owner == "" {
		owner = "local"
	}
	return owner + "." + templateID
}

// stamp validates doc and sets UpdatedAt.
func stamp(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if err := errors.ValidateDocumentKey(doc.Key); err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	return nil
}
