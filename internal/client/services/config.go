// Package services implements the submission and query pipelines on top of
// a ledger client, plus the label table shared by overlapping fetches.
package services

import (
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerID = "mark3t-rep/services"

// Config carries everything a pipeline needs. Nothing is read from globals.
type Config struct {
	Ledger ledger.Client
	// Origin is the address queries are issued from.
	Origin string
	// BuyerRef identifies the submitting account inside rating records.
	// Zero derives it from the signer address.
	BuyerRef uint32
	Logger   logging.Logger
	Now      func() time.Time
}

func (c Config) withDefaults(module string) Config {
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	c.Logger = c.Logger.With("module", module)
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func tracer() trace.Tracer {
	return otel.Tracer(tracerID)
}

func subjectAttr(id uint32) attribute.KeyValue {
	return attribute.Int64("subject_id", int64(id))
}
