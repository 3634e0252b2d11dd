package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/signer"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type SubmitState string

const (
	SubmitIdle       SubmitState = "idle"
	SubmitValidating SubmitState = "validating"
	SubmitSubmitting SubmitState = "submitting"
	SubmitSucceeded  SubmitState = "succeeded"
	SubmitFailed     SubmitState = "failed"
)

// SubmitService turns a RatingInput into a signed submit_rating message.
// One submission runs at a time; overlapping calls fail fast.
type SubmitService struct {
	cfg     Config
	journal submissions.Repository

	inFlight atomic.Bool

	mu       sync.RWMutex
	state    SubmitState
	onChange func(SubmitState)
}

// NewSubmitService builds the pipeline. journal may be nil.
func NewSubmitService(cfg Config, journal submissions.Repository) *SubmitService {
	return &SubmitService{
		cfg:     cfg.withDefaults("submit"),
		journal: journal,
		state:   SubmitIdle,
	}
}

// OnStateChange registers fn to be called on every transition.
func (s *SubmitService) OnStateChange(fn func(SubmitState)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *SubmitService) State() SubmitState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SubmitService) setState(st SubmitState) {
	s.mu.Lock()
	s.state = st
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Submit validates in, signs it with sg and dispatches it. Once dispatched
// the call is not cancelled by ctx.
func (s *SubmitService) Submit(ctx context.Context, sg signer.Signer, in models.RatingInput) (models.SubmitResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return models.SubmitResult{}, common.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	s.setState(SubmitValidating)

	req, err := s.prepare(sg, in)
	if err != nil {
		s.setState(SubmitFailed)
		s.cfg.Logger.Warn(ctx, "rating rejected before dispatch", "error", err)
		return models.SubmitResult{}, err
	}

	s.setState(SubmitSubmitting)

	corrID := uuid.NewString()
	dctx := ledger.WithCorrelationID(context.WithoutCancel(ctx), corrID)
	dctx, span := tracer().Start(dctx, "Submit/SubmitRating")
	span.SetAttributes(subjectAttr(in.SubjectID), attribute.String("correlation_id", corrID))

	log := s.cfg.Logger.With("correlation_id", corrID, "subject", in.SubjectID)

	hash, err := s.cfg.Ledger.Send(dctx, req)
	endSpan(span, err)
	if err != nil {
		s.setState(SubmitFailed)
		log.Error(dctx, "rating submission failed", "error", err)
		return models.SubmitResult{}, err
	}

	log.Info(dctx, "rating submitted", "hash", hash)
	s.record(dctx, hash, req.Data.Rating)

	s.setState(SubmitSucceeded)
	return models.SubmitResult{Success: true, Hash: hash}, nil
}

func (s *SubmitService) prepare(sg signer.Signer, in models.RatingInput) (*ledger.SendRequest, error) {
	if !signer.Present(sg) {
		return nil, &common.ValidationError{Field: "signer", Message: "wallet not connected"}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	buyer := s.cfg.BuyerRef
	if buyer == 0 {
		buyer = signer.Ref(sg.Address())
	}

	rec := models.ToRecord(in, buyer, 0, 0, s.cfg.Now())
	data := ledger.SendData{Rating: rec}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode rating: %w", err)
	}

	sig, err := sg.Sign(payload)
	if err != nil {
		return nil, &common.SignerError{Address: sg.Address(), Err: err}
	}

	req := &ledger.SendRequest{
		Method:    ledger.MethodSubmitRating,
		Origin:    sg.Address(),
		Data:      data,
		Payload:   payload,
		Signature: sig,
	}
	if pk, ok := sg.(signer.PublicKeyer); ok {
		req.PublicKey = pk.PublicKey()
	}
	return req, nil
}

func (s *SubmitService) record(ctx context.Context, hash string, rec models.RatingRecord) {
	if s.journal == nil {
		return
	}
	err := s.journal.Add(ctx, &submissions.Submission{
		Hash:          hash,
		SubjectID:     rec.SubjectID,
		Article:       rec.ArticleScore,
		Shipping:      rec.ShippingScore,
		Communication: rec.CommunicationScore,
		Comment:       rec.Remark,
		SubmittedAt:   s.cfg.Now(),
	})
	if err != nil {
		s.cfg.Logger.Warn(ctx, "failed to journal submission", "hash", hash, "error", err)
	}
}

// History returns the most recent journaled submissions.
func (s *SubmitService) History(ctx context.Context, limit int) ([]submissions.Submission, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, limit)
}
