package mongo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestExchangeDoc_RoundTripsThroughBSON(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := exchangeDoc{
		ID:         uuid.NewString(),
		UserID:     uuid.NewString(),
		Question:   "[ADMIN] estadísticas",
		Answer:     "📊 No hay datos de altura registrados aún.",
		Intent:     "admin_query",
		Confidence: 1,
		CreatedAt:  created,
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, doc.ID, fields["_id"])
	assert.Equal(t, doc.UserID, fields["user_id"])

	var decoded exchangeDoc
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	e, err := decoded.toDomain()
	require.NoError(t, err)
	assert.Equal(t, doc.Question, e.Question)
	assert.True(t, created.Equal(e.CreatedAt))
}

func TestExchangeDoc_InvalidID(t *testing.T) {
	_, err := exchangeDoc{ID: "nope", UserID: uuid.NewString()}.toDomain()
	assert.Error(t, err)
}
