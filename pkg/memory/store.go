// Package memory manages long-term recall for conversations, distinct from
// the in-session transcript. Entries are kept as database rows and mirrored
// into a per-conversation vector collection for similarity retrieval.
package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/pkg/errors"

	"github.com/hristov111/companion/pkg/db"
	"github.com/hristov111/companion/pkg/db/models"
)

const collectionPrefix = "memory-"

type Store struct {
	dbc     *db.DB
	vectors *chromem.DB
	embed   chromem.EmbeddingFunc
}

func New(dbc *db.DB, vectors *chromem.DB, embed chromem.EmbeddingFunc) *Store {
	return &Store{
		dbc:     dbc,
		vectors: vectors,
		embed:   embed,
	}
}

func collectionName(id uuid.UUID) string {
	return collectionPrefix + id.String()
}

// Remember stores one memory entry and indexes it for retrieval.
func (s *Store) Remember(ctx context.Context, id uuid.UUID, content string) error {
	entry := models.MemoryEntry{
		ID:             uuid.New(),
		ConversationID: id,
		Content:        content,
	}
	if err := s.dbc.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.Wrap(err, "could not store memory entry")
	}

	if err := s.index(ctx, id, entry.ID.String(), content); err != nil {
		return errors.Wrap(err, "could not index memory entry")
	}

	return nil
}

// Recall returns up to k stored memories most similar to the query, most
// similar first. A conversation with no memories yields an empty result.
func (s *Store) Recall(ctx context.Context, id uuid.UUID, query string, k int) ([]string, error) {
	collection := s.vectors.GetCollection(collectionName(id), s.embed)
	if collection == nil {
		return nil, nil
	}

	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not query memory index")
	}

	memories := make([]string, 0, len(results))
	for _, r := range results {
		memories = append(memories, r.Content)
	}
	return memories, nil
}

// Purge removes every memory entry and the vector collection for a
// conversation. Purging a conversation with no memories is a no-op.
func (s *Store) Purge(ctx context.Context, id uuid.UUID) error {
	if err := s.dbc.DB.WithContext(ctx).Where("conversation_id = ?", id).Delete(&models.MemoryEntry{}).Error; err != nil {
		return errors.Wrap(err, "could not delete memory entries")
	}

	if err := s.vectors.DeleteCollection(collectionName(id)); err != nil {
		return errors.Wrap(err, "could not drop memory index")
	}

	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.dbc.Ping(ctx)
}

func (s *Store) index(ctx context.Context, id uuid.UUID, docID, content string) error {
	collection, err := s.vectors.GetOrCreateCollection(collectionName(id), nil, s.embed)
	if err != nil {
		return err
	}

	return collection.AddDocument(ctx, chromem.Document{
		ID:      docID,
		Content: content,
	})
}
