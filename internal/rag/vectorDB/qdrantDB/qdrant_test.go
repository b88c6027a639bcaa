package qdrantDB

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestPointID_StableAndValid(t *testing.T) {
	a := PointID("doc-1_3")
	b := PointID("doc-1_3")
	c := PointID("doc-1_4")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestFromPayload(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		fieldChunkId:    "doc_2",
		fieldDocumentId: "doc",
		fieldSequence:   2,
		fieldStart:      1600,
		fieldEnd:        2600,
		fieldPage:       3,
		fieldText:       "chunk text",
		fieldModel:      "gemini-embedding-001",
		fieldIngestedAt: int64(1700000000),
	})

	md := fromPayload(payload)

	assert.Equal(t, "doc", md.DocumentId)
	assert.Equal(t, 2, md.SequenceIndex)
	assert.Equal(t, 1600, md.StartIndex)
	assert.Equal(t, 2600, md.EndIndex)
	assert.Equal(t, 3, md.PageNumber)
	assert.Equal(t, "chunk text", md.Text)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), md.IngestedAt)
}

func TestDocumentFilter(t *testing.T) {
	f := documentFilter("doc-9")

	assert.Len(t, f.GetMust(), 1)
	assert.Equal(t, fieldDocumentId, f.GetMust()[0].GetField().GetKey())
	assert.Equal(t, "doc-9", f.GetMust()[0].GetField().GetMatch().GetKeyword())
}
