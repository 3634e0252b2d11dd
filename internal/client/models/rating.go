// Package models holds the rating types shared by the ledger transport,
// the pipelines and the CLI, along with record construction and aggregation.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/common"
)

// RatingInput is what a user fills in before submitting a rating.
type RatingInput struct {
	SubjectID          uint32
	SubjectLabel       string
	Comment            string
	ArticleScore       uint8
	ShippingScore      uint8
	CommunicationScore uint8
}

// RatingRecord is the canonical record as stored by the ledger. The JSON
// names follow the contract; the communication score travels as
// "seller_score". Timestamp is unix milliseconds.
type RatingRecord struct {
	PurchaseRef        uint64 `json:"purchase_id"`
	Timestamp          uint64 `json:"timestamp"`
	BuyerRef           uint32 `json:"buyer"`
	SubjectID          uint32 `json:"seller_id"`
	ArticleRef         uint32 `json:"article_id"`
	CommunicationScore uint8  `json:"seller_score"`
	ArticleScore       uint8  `json:"article_score"`
	ShippingScore      uint8  `json:"shipping_score"`
	Remark             string `json:"remark"`
}

// Rating is the display form of a record. ID is the position in the list it
// was fetched in and carries no meaning across refreshes.
type Rating struct {
	ID            int    `json:"id"`
	SubjectID     uint32 `json:"seller_id"`
	SubjectLabel  string `json:"seller"`
	Date          string `json:"date"`
	Comment       string `json:"comment"`
	Article       uint8  `json:"article"`
	Shipping      uint8  `json:"shipping"`
	Communication uint8  `json:"communication"`
}

// SubmitResult is the terminal value of one submission attempt.
type SubmitResult struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash"`
}

// Validate checks that every score is within the accepted range.
// A zero score means the field was left empty.
func (in RatingInput) Validate() error {
	scores := []struct {
		field string
		v     uint8
	}{
		{"articleScore", in.ArticleScore},
		{"shippingScore", in.ShippingScore},
		{"communicationScore", in.CommunicationScore},
	}
	for _, s := range scores {
		if s.v == 0 {
			return &common.ValidationError{Field: s.field, Message: "score is required"}
		}
		if s.v < common.MinScore || s.v > common.MaxScore {
			return &common.ValidationError{
				Field:   s.field,
				Message: fmt.Sprintf("must be between %d and %d, got %d", common.MinScore, common.MaxScore, s.v),
			}
		}
	}
	return nil
}

// Overall is the mean of the three scores.
func (r Rating) Overall() float64 {
	return (float64(r.Article) + float64(r.Shipping) + float64(r.Communication)) / 3
}

// DateFromMillis formats a unix millisecond timestamp as a UTC calendar date.
func DateFromMillis(ms uint64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.DateOnly)
}

// ToRating converts a record to its display form.
func (r RatingRecord) ToRating(id int, label string) Rating {
	return Rating{
		ID:            id,
		SubjectID:     r.SubjectID,
		SubjectLabel:  label,
		Date:          DateFromMillis(r.Timestamp),
		Comment:       r.Remark,
		Article:       r.ArticleScore,
		Shipping:      r.ShippingScore,
		Communication: r.CommunicationScore,
	}
}

// FormatScore renders an average with one decimal.
func FormatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
