package models

import (
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/common"
)

// ledgerScale is the factor the contract multiplies scores by before
// storing them (1..5 becomes 20..100).
const ledgerScale = 20

// newRef is a test seam for fresh purchase/article references.
var newRef = common.RandomUint64

// ToRecord builds the ledger record for in. A zero purchaseRef or articleRef
// is replaced by a fresh random reference; uniqueness of references is not
// guaranteed here and remains the caller's concern.
func ToRecord(in RatingInput, buyerRef uint32, purchaseRef uint64, articleRef uint32, now time.Time) RatingRecord {
	for purchaseRef == 0 {
		purchaseRef = newRef()
	}
	for articleRef == 0 {
		articleRef = uint32(newRef())
	}
	return RatingRecord{
		PurchaseRef:        purchaseRef,
		Timestamp:          uint64(now.UnixMilli()),
		BuyerRef:           buyerRef,
		SubjectID:          in.SubjectID,
		ArticleRef:         articleRef,
		CommunicationScore: in.CommunicationScore,
		ArticleScore:       in.ArticleScore,
		ShippingScore:      in.ShippingScore,
		Remark:             in.Comment,
	}
}

// ScaleToLedger converts a 1..5 score to the contract's storage scale.
func ScaleToLedger(score uint8) uint8 {
	return score * ledgerScale
}

// ScaleFromLedger converts a stored score back to 1..5, rounding to the
// nearest step. Values already within 0..5 are returned unchanged.
func ScaleFromLedger(v uint8) uint8 {
	if v <= common.MaxScore {
		return v
	}
	return uint8((int(v) + ledgerScale/2) / ledgerScale)
}
