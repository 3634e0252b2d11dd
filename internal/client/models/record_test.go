package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecord_UsesSuppliedRefs(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := ToRecord(validInput(), 3, 100, 200, now)

	assert.Equal(t, RatingRecord{
		PurchaseRef:        100,
		Timestamp:          uint64(now.UnixMilli()),
		BuyerRef:           3,
		SubjectID:          7,
		ArticleRef:         200,
		CommunicationScore: 4,
		ArticleScore:       5,
		ShippingScore:      5,
		Remark:             "fast shipping",
	}, rec)
}

func TestToRecord_AssignsFreshRefs(t *testing.T) {
	orig := newRef
	t.Cleanup(func() { newRef = orig })

	seq := []uint64{0, 555, 1 << 32, 77}
	newRef = func() uint64 {
		v := seq[0]
		seq = seq[1:]
		return v
	}

	rec := ToRecord(validInput(), 3, 0, 0, time.Unix(0, 0))

	// zero refs are redrawn, including values that truncate to zero
	assert.Equal(t, uint64(555), rec.PurchaseRef)
	assert.Equal(t, uint32(77), rec.ArticleRef)
	assert.Empty(t, seq)
}

func TestToRecord_RandomRefsAreNonZero(t *testing.T) {
	rec := ToRecord(validInput(), 1, 0, 0, time.Now())
	assert.NotZero(t, rec.PurchaseRef)
	assert.NotZero(t, rec.ArticleRef)
}

func TestRatingRecord_WireNames(t *testing.T) {
	b, err := json.Marshal(RatingRecord{SubjectID: 7, CommunicationScore: 4})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "seller_id")
	assert.Contains(t, m, "seller_score")
	assert.Contains(t, m, "purchase_id")
	assert.Equal(t, float64(4), m["seller_score"])
}

func TestScaleLedger(t *testing.T) {
	for s := uint8(1); s <= 5; s++ {
		assert.Equal(t, s, ScaleFromLedger(ScaleToLedger(s)))
	}
	assert.Equal(t, uint8(100), ScaleToLedger(5))
	assert.Equal(t, uint8(3), ScaleFromLedger(3))
	assert.Equal(t, uint8(5), ScaleFromLedger(95))
}
