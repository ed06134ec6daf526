package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	payload, err := encode(CompileJob{VariantID: id, EnqueuedAt: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"variant_id":"`+id.String()+`","enqueued_at":"2025-03-01T12:00:00Z"}`, payload)

	job, err := decode(payload)
	require.NoError(t, err)
	assert.Equal(t, id, job.VariantID)
	assert.True(t, at.Equal(job.EnqueuedAt))
}

func TestDecode_BareVariantID(t *testing.T) {
	id := uuid.New()
	job, err := decode(`{"variant_id":"` + id.String() + `"}`)
	require.NoError(t, err)
	assert.Equal(t, id, job.VariantID)
	assert.True(t, job.EnqueuedAt.IsZero())
}

func TestDecode_Malformed(t *testing.T) {
	for _, payload := range []string{`not json`, `{}`, `{"variant_id":"nope"}`} {
		t.Run(payload, func(t *testing.T) {
			_, err := decode(payload)
			var malformed *MalformedJobError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, payload, malformed.Payload)
		})
	}
}

func TestNew_DefaultKey(t *testing.T) {
	assert.Equal(t, DefaultKey, New(nil, "").key)
	assert.Equal(t, "custom", New(nil, "custom").key)
}
