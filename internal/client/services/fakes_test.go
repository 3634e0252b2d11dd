package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
)

type fakeLedger struct {
	ledger.Client

	mu sync.Mutex

	// presets
	QueryRecords []models.RatingRecord
	QueryErr     error
	SendHash     string
	SendErr      error
	Storage      map[string][]byte

	// hooks
	OnQuery func(ctx context.Context)
	OnSend  func(ctx context.Context)

	// captured
	LastMethod string
	LastOrigin string
	LastFilter *uint32
	LastSend   *ledger.SendRequest
	SendCtxErr error
	SendCalls  int
	QueryCalls int
}

func (f *fakeLedger) Query(ctx context.Context, method, origin string, subjectID *uint32) ([]models.RatingRecord, error) {
	f.mu.Lock()
	f.QueryCalls++
	f.LastMethod, f.LastOrigin, f.LastFilter = method, origin, subjectID
	hook := f.OnQuery
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.QueryRecords, f.QueryErr
}

func (f *fakeLedger) Send(ctx context.Context, req *ledger.SendRequest) (string, error) {
	f.mu.Lock()
	f.SendCalls++
	f.LastSend = req
	hook := f.OnSend
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SendCtxErr = ctx.Err()
	return f.SendHash, f.SendErr
}

func (f *fakeLedger) ReadStorage(_ context.Context, key []byte) ([]byte, error) {
	v, ok := f.Storage[string(key)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

type fakeJournal struct {
	mu     sync.Mutex
	items  []submissions.Submission
	AddErr error
}

func (j *fakeJournal) Add(_ context.Context, s *submissions.Submission) error {
	if j.AddErr != nil {
		return j.AddErr
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.items = append(j.items, *s)
	return nil
}

func (j *fakeJournal) List(_ context.Context, limit int) ([]submissions.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit > 0 && limit < len(j.items) {
		return j.items[:limit], nil
	}
	return j.items, nil
}

func (j *fakeJournal) Count(context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.items), nil
}

func (j *fakeJournal) Clear(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.items = nil
	return nil
}

type fakeLabelRepo struct {
	mu        sync.Mutex
	labels    map[uint32]string
	inserts   int
	InsertErr error
	ListErr   error
}

func newFakeLabelRepo() *fakeLabelRepo {
	return &fakeLabelRepo{labels: map[uint32]string{}}
}

func (r *fakeLabelRepo) Get(_ context.Context, id uint32) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.labels[id]
	return l, ok, nil
}

func (r *fakeLabelRepo) InsertIfAbsent(_ context.Context, id uint32, label string) (string, error) {
	if r.InsertErr != nil {
		return "", r.InsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if l, ok := r.labels[id]; ok {
		return l, nil
	}
	r.labels[id] = label
	return label, nil
}

func (r *fakeLabelRepo) List(context.Context) (map[uint32]string, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint32]string, len(r.labels))
	for k, v := range r.labels {
		out[k] = v
	}
	return out, nil
}

func (r *fakeLabelRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = map[uint32]string{}
	return nil
}

type failingSigner struct{}

func (failingSigner) Address() string { return "0xdead" }

func (failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("device locked")
}

type staticLabels map[uint32]string

func (s staticLabels) Resolve(_ context.Context, id uint32) string {
	return s[id]
}
