package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/dmitrijs2005/mark3t-rep/internal/entityid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Storage roots of the reputation contract.
const (
	// IndexRoot maps a subject id to the list of its entry keys.
	IndexRoot = "rating_index"
	// RecordRoot maps (subject id, entry key) to one encoded record.
	RecordRoot = "ratings"
)

// Record field numbers, in RatingRecord declaration order.
const (
	fieldPurchaseRef protowire.Number = iota + 1
	fieldTimestamp
	fieldBuyerRef
	fieldSubjectID
	fieldArticleRef
	fieldCommunicationScore
	fieldArticleScore
	fieldShippingScore
	fieldRemark
)

const fieldIndexEntry protowire.Number = 1

var ErrBadStorageValue = errors.New("bad storage value")

// StorageReader is the subset of Client used by LoadSubjectRecords.
type StorageReader interface {
	ReadStorage(ctx context.Context, key []byte) ([]byte, error)
}

// EntryRef is the entry key a record is filed under: its purchase ref,
// big endian.
func EntryRef(r models.RatingRecord) []byte {
	return binary.BigEndian.AppendUint64(nil, r.PurchaseRef)
}

// EncodeRecord serializes r the way the contract stores it. Scores are
// written on the contract's 0..100 scale.
func EncodeRecord(r models.RatingRecord) []byte {
	var b []byte
	varint := func(n protowire.Number, v uint64) {
		b = protowire.AppendTag(b, n, protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}
	varint(fieldPurchaseRef, r.PurchaseRef)
	varint(fieldTimestamp, r.Timestamp)
	varint(fieldBuyerRef, uint64(r.BuyerRef))
	varint(fieldSubjectID, uint64(r.SubjectID))
	varint(fieldArticleRef, uint64(r.ArticleRef))
	varint(fieldCommunicationScore, uint64(models.ScaleToLedger(r.CommunicationScore)))
	varint(fieldArticleScore, uint64(models.ScaleToLedger(r.ArticleScore)))
	varint(fieldShippingScore, uint64(models.ScaleToLedger(r.ShippingScore)))
	if r.Remark != "" {
		b = protowire.AppendTag(b, fieldRemark, protowire.BytesType)
		b = protowire.AppendString(b, r.Remark)
	}
	return b
}

// DecodeRecord parses a stored record. Unknown fields are skipped.
func DecodeRecord(b []byte) (models.RatingRecord, error) {
	var r models.RatingRecord
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("%w: %v", ErrBadStorageValue, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldRemark && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return r, fmt.Errorf("%w: remark: %v", ErrBadStorageValue, protowire.ParseError(n))
			}
			r.Remark = v
			b = b[n:]
		case num >= fieldPurchaseRef && num <= fieldShippingScore && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("%w: field %d: %v", ErrBadStorageValue, num, protowire.ParseError(n))
			}
			if err := setVarint(&r, num, v); err != nil {
				return r, err
			}
			b = b[n:]
		case num >= fieldPurchaseRef && num <= fieldRemark:
			return r, fmt.Errorf("%w: field %d has wire type %d", ErrBadStorageValue, num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, fmt.Errorf("%w: field %d: %v", ErrBadStorageValue, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return r, nil
}

func setVarint(r *models.RatingRecord, num protowire.Number, v uint64) error {
	score := func() (uint8, error) {
		if v > 255 {
			return 0, fmt.Errorf("%w: score %d out of range", ErrBadStorageValue, v)
		}
		return models.ScaleFromLedger(uint8(v)), nil
	}
	var err error
	switch num {
	case fieldPurchaseRef:
		r.PurchaseRef = v
	case fieldTimestamp:
		r.Timestamp = v
	case fieldBuyerRef:
		r.BuyerRef = uint32(v)
	case fieldSubjectID:
		r.SubjectID = uint32(v)
	case fieldArticleRef:
		r.ArticleRef = uint32(v)
	case fieldCommunicationScore:
		r.CommunicationScore, err = score()
	case fieldArticleScore:
		r.ArticleScore, err = score()
	case fieldShippingScore:
		r.ShippingScore, err = score()
	}
	return err
}

// EncodeIndex serializes a subject's entry keys.
func EncodeIndex(entries [][]byte) []byte {
	var b []byte
	for _, e := range entries {
		b = protowire.AppendTag(b, fieldIndexEntry, protowire.BytesType)
		b = protowire.AppendBytes(b, e)
	}
	return b
}

// DecodeIndex parses a subject's entry keys.
func DecodeIndex(b []byte) ([][]byte, error) {
	var out [][]byte
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadStorageValue, protowire.ParseError(n))
		}
		b = b[n:]
		if num != fieldIndexEntry || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrBadStorageValue, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadStorageValue, protowire.ParseError(n))
		}
		out = append(out, append([]byte(nil), v...))
		b = b[n:]
	}
	return out, nil
}

// LoadSubjectRecords reads a subject's records straight from contract
// storage: the index first, then every entry it lists. A subject without an
// index returns common.ErrNotFound. Entries listed in the index but missing
// from storage are skipped.
func LoadSubjectRecords(ctx context.Context, r StorageReader, subjectID uint32) ([]models.RatingRecord, error) {
	id := entityid.FromSubject(subjectID)

	raw, err := r.ReadStorage(ctx, entityid.StorageKey(IndexRoot, id))
	if err != nil {
		return nil, err
	}
	entries, err := DecodeIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("subject %d index: %w", subjectID, err)
	}

	records := make([]models.RatingRecord, 0, len(entries))
	for _, e := range entries {
		raw, err := r.ReadStorage(ctx, entityid.EntryKey(RecordRoot, id, e))
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rec, err := DecodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("subject %d entry %x: %w", subjectID, e, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
