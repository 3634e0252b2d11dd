package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"go.opentelemetry.io/otel/attribute"
)

type QueryState string

const (
	QueryIdle    QueryState = "idle"
	QueryLoading QueryState = "loading"
	QueryReady   QueryState = "ready"
	QueryFailed  QueryState = "failed"
)

// LabelResolver maps a subject id to a display label.
type LabelResolver interface {
	Resolve(ctx context.Context, subjectID uint32) string
}

// FetchResult is the outcome of one fetch. Err is set when the fetch failed;
// Ratings is then empty and never stale.
type FetchResult struct {
	Ratings    []models.Rating
	Summary    models.Summary
	Generation uint64
	Err        error
}

type QueryService struct {
	cfg    Config
	labels LabelResolver

	generation atomic.Uint64

	mu         sync.Mutex
	pending    int
	latestDone uint64
	latestErr  error
	state      QueryState
}

func NewQueryService(cfg Config, labels LabelResolver) *QueryService {
	return &QueryService{
		cfg:    cfg.withDefaults("query"),
		labels: labels,
		state:  QueryIdle,
	}
}

func (q *QueryService) State() QueryState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *QueryService) begin() uint64 {
	gen := q.generation.Add(1)
	q.mu.Lock()
	q.pending++
	q.state = QueryLoading
	q.mu.Unlock()
	return gen
}

func (q *QueryService) finish(gen uint64, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if gen > q.latestDone {
		q.latestDone = gen
		q.latestErr = err
	}
	if q.pending > 0 {
		return
	}
	if q.latestErr != nil {
		q.state = QueryFailed
	} else {
		q.state = QueryReady
	}
}

// Fetch asks the ledger for every rating, or only those of *filter when
// filter is set. A subject with no ratings yields an empty result.
func (q *QueryService) Fetch(ctx context.Context, filter *uint32) FetchResult {
	gen := q.begin()

	method := ledger.MethodGetAllRatings
	if filter != nil {
		method = ledger.MethodGetRatingsForSubject
	}

	ctx, span := tracer().Start(ctx, "Query/Fetch")
	span.SetAttributes(attribute.String("method", method), attribute.Int64("generation", int64(gen)))
	if filter != nil {
		span.SetAttributes(subjectAttr(*filter))
	}

	q.cfg.Logger.Debug(ctx, "querying ledger", "method", method, "generation", gen)
	records, err := q.cfg.Ledger.Query(ctx, method, q.cfg.Origin, filter)
	if errors.Is(err, common.ErrNotFound) {
		records, err = nil, nil
	}
	endSpan(span, err)

	return q.complete(ctx, gen, records, err)
}

// FetchFromStorage reads the ratings of subjectID straight from contract
// storage instead of running a query message.
func (q *QueryService) FetchFromStorage(ctx context.Context, subjectID uint32) FetchResult {
	gen := q.begin()

	ctx, span := tracer().Start(ctx, "Query/FetchFromStorage")
	span.SetAttributes(subjectAttr(subjectID), attribute.Int64("generation", int64(gen)))

	records, err := ledger.LoadSubjectRecords(ctx, q.cfg.Ledger, subjectID)
	if errors.Is(err, common.ErrNotFound) {
		records, err = nil, nil
	}
	endSpan(span, err)

	return q.complete(ctx, gen, records, err)
}

func (q *QueryService) complete(ctx context.Context, gen uint64, records []models.RatingRecord, err error) FetchResult {
	defer func() { q.finish(gen, err) }()

	if err != nil {
		q.cfg.Logger.Error(ctx, "fetch failed", "generation", gen, "error", err)
		return FetchResult{Ratings: []models.Rating{}, Generation: gen, Err: err}
	}

	ratings := q.convert(ctx, records)
	q.cfg.Logger.Info(ctx, "fetched ratings", "generation", gen, "count", len(ratings))

	return FetchResult{
		Ratings:    ratings,
		Summary:    models.Aggregate(records),
		Generation: gen,
	}
}

// convert orders records newest first and numbers them by position.
func (q *QueryService) convert(ctx context.Context, records []models.RatingRecord) []models.Rating {
	sorted := make([]models.RatingRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	ratings := make([]models.Rating, 0, len(sorted))
	for i, rec := range sorted {
		label := ""
		if q.labels != nil {
			label = q.labels.Resolve(ctx, rec.SubjectID)
		}
		ratings = append(ratings, rec.ToRating(i, label))
	}
	return ratings
}

// Summaries returns per-subject averages of ratings.
func (q *QueryService) Summaries(ratings []models.Rating) map[uint32]models.Summary {
	return models.GroupBySubject(ratings)
}
