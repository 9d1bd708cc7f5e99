package memory

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedding maps text into a small deterministic unit vector so tests
// run without an embedding endpoint.
func stubEmbedding(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 8)
	for i, r := range text {
		v[i%len(v)] += float32(r)
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		v[0] = 1
		return v, nil
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v, nil
}

func newTestStore() *Store {
	return New(nil, chromem.NewDB(), stubEmbedding)
}

func TestRecallUnknownConversation(t *testing.T) {
	s := newTestStore()

	memories, err := s.Recall(context.Background(), uuid.New(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestIndexAndRecall(t *testing.T) {
	s := newTestStore()
	conversationID := uuid.New()
	ctx := context.Background()

	require.NoError(t, s.index(ctx, conversationID, uuid.NewString(), "the user likes hiking"))
	require.NoError(t, s.index(ctx, conversationID, uuid.NewString(), "the user lives in Sofia"))

	memories, err := s.Recall(ctx, conversationID, "the user likes hiking", 1)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "the user likes hiking", memories[0])
}

func TestRecallClampsResultCount(t *testing.T) {
	s := newTestStore()
	conversationID := uuid.New()
	ctx := context.Background()

	require.NoError(t, s.index(ctx, conversationID, uuid.NewString(), "only one memory"))

	memories, err := s.Recall(ctx, conversationID, "memory", 10)
	require.NoError(t, err)
	assert.Len(t, memories, 1)
}

func TestRecallIsScopedToConversation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, s.index(ctx, first, uuid.NewString(), "memory of the first conversation"))

	memories, err := s.Recall(ctx, second, "memory", 3)
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestRecallAfterIndexDropped(t *testing.T) {
	s := newTestStore()
	conversationID := uuid.New()
	ctx := context.Background()

	require.NoError(t, s.index(ctx, conversationID, uuid.NewString(), "soon to be gone"))
	require.NoError(t, s.vectors.DeleteCollection(collectionName(conversationID)))

	memories, err := s.Recall(ctx, conversationID, "gone", 3)
	require.NoError(t, err)
	assert.Empty(t, memories)
}
