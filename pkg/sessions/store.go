// Package sessions manages the transient dialogue state of a conversation:
// the durable transcript rows plus a cached recent-context window.
package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hristov111/companion/pkg/ai"
	cacheapi "github.com/hristov111/companion/pkg/apis/cache"
	"github.com/hristov111/companion/pkg/db"
	"github.com/hristov111/companion/pkg/db/models"
)

const (
	cacheKeyPrefix = "session_"
	cacheTTL       = 30 * time.Minute

	// DefaultWindow is how many turns the cached context window holds.
	DefaultWindow = 20
)

type cachedTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Store struct {
	dbc    *db.DB
	cache  cacheapi.Cache
	window int
}

// New builds a session store over the database, with an optional cache for
// the recent-context window. A nil cache means every read hits the database.
func New(dbc *db.DB, cache cacheapi.Cache) *Store {
	return &Store{
		dbc:    dbc,
		cache:  cache,
		window: DefaultWindow,
	}
}

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

// AppendTurn records one turn of the transcript and refreshes the cached
// window. The conversation row is created on first use.
func (s *Store) AppendTurn(ctx context.Context, id uuid.UUID, role, content string) error {
	conversation := models.Conversation{
		ID:       id,
		Metadata: pgtype.JSONB{Status: pgtype.Null},
	}
	if err := s.dbc.DB.WithContext(ctx).Where(models.Conversation{ID: id}).FirstOrCreate(&conversation).Error; err != nil {
		return errors.Wrap(err, "could not ensure conversation")
	}

	message := models.ConversationMessage{
		ConversationID: id,
		Role:           role,
		Content:        content,
	}
	if err := s.dbc.DB.WithContext(ctx).Create(&message).Error; err != nil {
		return errors.Wrap(err, "could not append conversation message")
	}

	s.refreshWindow(id, cachedTurn{Role: role, Content: content})
	return nil
}

// History returns the most recent turns, oldest first. The cached window is
// preferred; the transcript is consulted on a miss.
func (s *Store) History(ctx context.Context, id uuid.UUID, limit int) ([]ai.Message, error) {
	if turns, ok := s.windowFromCache(id); ok {
		if len(turns) > limit {
			turns = turns[len(turns)-limit:]
		}
		return toMessages(turns), nil
	}

	var rows []models.ConversationMessage
	err := s.dbc.DB.WithContext(ctx).
		Where("conversation_id = ?", id).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not load conversation history")
	}

	turns := make([]cachedTurn, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		turns = append(turns, cachedTurn{Role: rows[i].Role, Content: rows[i].Content})
	}
	if cacheableWindow(limit, s.window) {
		s.storeWindow(id, turns)
	}

	return toMessages(turns), nil
}

// Clear removes the transcript and cached window for a conversation. It is
// idempotent: clearing an unknown conversation succeeds.
func (s *Store) Clear(ctx context.Context, id uuid.UUID) error {
	if err := s.dbc.DB.WithContext(ctx).Where("conversation_id = ?", id).Delete(&models.ConversationMessage{}).Error; err != nil {
		return errors.Wrap(err, "could not delete conversation messages")
	}

	if s.cache != nil {
		if err := s.cache.Delete(cacheKey(id)); err != nil {
			return errors.Wrap(err, "could not drop cached session window")
		}
	}

	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.dbc.Ping(ctx)
}

func (s *Store) windowFromCache(id uuid.UUID) ([]cachedTurn, bool) {
	if s.cache == nil {
		return nil, false
	}

	content, err := s.cache.Get(cacheKey(id))
	if err != nil {
		return nil, false
	}

	var turns []cachedTurn
	if err := json.Unmarshal(content, &turns); err != nil {
		log.WithError(err).WithField("conversationID", id).Warn("discarding corrupt session window")
		return nil, false
	}

	return turns, true
}

func (s *Store) storeWindow(id uuid.UUID, turns []cachedTurn) {
	if s.cache == nil {
		return
	}

	content, err := json.Marshal(turns)
	if err != nil {
		return
	}
	if err := s.cache.Set(cacheKey(id), content, cacheTTL); err != nil {
		log.WithError(err).WithField("conversationID", id).Debug("could not cache session window")
	}
}

func (s *Store) refreshWindow(id uuid.UUID, turn cachedTurn) {
	if s.cache == nil {
		return
	}

	turns, ok := s.windowFromCache(id)
	if !ok {
		return
	}
	s.storeWindow(id, appendWindow(turns, turn, s.window))
}

// cacheableWindow reports whether a transcript fetch with the given limit
// covers the full window size. A shorter fetch must not be cached, or a
// later read with a larger limit would see a truncated window.
func cacheableWindow(limit, window int) bool {
	return limit >= window
}

// appendWindow adds a turn and trims the window to at most size entries,
// dropping the oldest first.
func appendWindow(turns []cachedTurn, turn cachedTurn, size int) []cachedTurn {
	turns = append(turns, turn)
	if len(turns) > size {
		turns = turns[len(turns)-size:]
	}
	return turns
}

func toMessages(turns []cachedTurn) []ai.Message {
	messages := make([]ai.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, ai.Message{Role: t.Role, Content: t.Content})
	}
	return messages
}
