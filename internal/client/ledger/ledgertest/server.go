// Package ledgertest provides an in-memory reputation contract served over
// an in-process gRPC connection.
package ledgertest

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/signer"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/dmitrijs2005/mark3t-rep/internal/cryptox"
	"github.com/dmitrijs2005/mark3t-rep/internal/entityid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// Server is an in-memory ContractServer. Records submitted through Send or
// added with Seed are visible to Query and to ReadStorage.
//
// The exported error fields inject failures; they are read under the lock,
// so set them before the call under test.
type Server struct {
	mu      sync.Mutex
	records []models.RatingRecord
	storage map[string][]byte

	// QueryErr and SendErr are returned as is (use status errors).
	QueryErr error
	SendErr  error
	// QueryFailure makes Query answer success=false with this message.
	QueryFailure string
	// DispatchError makes Send answer ok=false with this message.
	DispatchError string

	calls          []string
	lastAPIKey     string
	lastCorrelated string
}

func NewServer() *Server {
	return &Server{storage: make(map[string][]byte)}
}

// Seed stores records as if they had been submitted.
func (s *Server) Seed(records ...models.RatingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.store(r)
	}
}

// store must be called with mu held.
func (s *Server) store(r models.RatingRecord) {
	s.records = append(s.records, r)

	id := entityid.FromSubject(r.SubjectID)
	indexKey := string(entityid.StorageKey(ledger.IndexRoot, id))

	var entries [][]byte
	if raw, ok := s.storage[indexKey]; ok {
		entries, _ = ledger.DecodeIndex(raw)
	}
	entry := ledger.EntryRef(r)
	entries = append(entries, entry)

	s.storage[indexKey] = ledger.EncodeIndex(entries)
	s.storage[string(entityid.EntryKey(ledger.RecordRoot, id, entry))] = ledger.EncodeRecord(r)
}

// PutStorage writes a raw storage value.
func (s *Server) PutStorage(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[string(key)] = value
}

// Records returns a copy of every stored record.
func (s *Server) Records() []models.RatingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RatingRecord(nil), s.records...)
}

// Calls returns the RPC names served so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// LastMetadata returns the API key and correlation id of the latest call.
func (s *Server) LastMetadata() (apiKey, correlationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAPIKey, s.lastCorrelated
}

// record must be called with mu held.
func (s *Server) record(ctx context.Context, call string) {
	s.calls = append(s.calls, call)
	md, _ := metadata.FromIncomingContext(ctx)
	s.lastAPIKey = first(md.Get(common.APIKeyHeaderName))
	s.lastCorrelated = first(md.Get(common.CorrelationIDHeaderName))
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (s *Server) Query(ctx context.Context, req *ledger.QueryRequest) (*ledger.QueryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "Query")

	if s.QueryErr != nil {
		return nil, s.QueryErr
	}
	if s.QueryFailure != "" {
		return &ledger.QueryResponse{Success: false, Error: s.QueryFailure}, nil
	}

	out := make([]models.RatingRecord, 0, len(s.records))
	switch req.Method {
	case ledger.MethodGetAllRatings:
		out = append(out, s.records...)
	case ledger.MethodGetRatingsForSubject:
		if req.Data == nil || req.Data.SubjectID == nil {
			return nil, status.Error(codes.InvalidArgument, "subject_id is required")
		}
		for _, r := range s.records {
			if r.SubjectID == *req.Data.SubjectID {
				out = append(out, r)
			}
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown message %q", req.Method)
	}
	return &ledger.QueryResponse{Success: true, Value: &ledger.QueryValue{Response: out}}, nil
}

func (s *Server) Send(ctx context.Context, req *ledger.SendRequest) (*ledger.SendResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "Send")

	if s.SendErr != nil {
		return nil, s.SendErr
	}
	if s.DispatchError != "" {
		return &ledger.SendResponse{Ok: false, DispatchError: s.DispatchError}, nil
	}
	if req.Method != ledger.MethodSubmitRating {
		return nil, status.Errorf(codes.InvalidArgument, "unknown message %q", req.Method)
	}
	if len(req.Signature) == 0 {
		return &ledger.SendResponse{Ok: false, DispatchError: "BadOrigin: missing signature"}, nil
	}

	want, err := json.Marshal(req.Data)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if !bytes.Equal(want, req.Payload) {
		return &ledger.SendResponse{Ok: false, DispatchError: "payload does not match data"}, nil
	}
	if len(req.PublicKey) > 0 {
		if cryptox.Address(req.PublicKey) != req.Origin || !signer.Verify(req.PublicKey, req.Payload, req.Signature) {
			return &ledger.SendResponse{Ok: false, DispatchError: "BadSignature"}, nil
		}
	}

	s.store(req.Data.Rating)
	return &ledger.SendResponse{Ok: true, Hash: cryptox.TxHash(req.Payload, req.Signature)}, nil
}

func (s *Server) ReadStorage(ctx context.Context, req *ledger.StorageRequest) (*ledger.StorageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "ReadStorage")

	if !knownKey(req.Key) {
		return nil, status.Error(codes.InvalidArgument, "storage key is not under a known root")
	}

	v, ok := s.storage[string(req.Key)]
	if !ok {
		return &ledger.StorageResponse{Found: false}, nil
	}
	return &ledger.StorageResponse{Found: true, Value: append([]byte(nil), v...)}, nil
}

func (s *Server) Ping(ctx context.Context, _ *ledger.PingRequest) (*ledger.PingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "Ping")
	return &ledger.PingResponse{Status: "OK"}, nil
}

// knownKey reports whether key addresses a subject under one of the
// contract's storage roots.
func knownKey(key []byte) bool {
	for _, root := range []string{ledger.IndexRoot, ledger.RecordRoot} {
		if _, err := entityid.IDFromStorageKey(root, key); err == nil {
			return true
		}
	}
	return false
}

const bufSize = 1 << 20

// Harness runs a Server behind a bufconn listener.
type Harness struct {
	Server   *Server
	Endpoint string
	dialer   grpc.DialOption
	grpc     *grpc.Server
}

// Start serves srv until the test ends.
func Start(tb testing.TB, srv *Server, opts ...grpc.ServerOption) *Harness {
	tb.Helper()

	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer(opts...)
	ledger.RegisterContractServer(gs, srv)

	go func() {
		_ = gs.Serve(lis)
	}()
	tb.Cleanup(func() {
		gs.Stop()
		_ = lis.Close()
	})

	return &Harness{
		Server:   srv,
		Endpoint: "passthrough:///bufnet",
		dialer: grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc: gs,
	}
}

// Client dials the harness and closes the client when the test ends.
func (h *Harness) Client(tb testing.TB, opts ledger.Options) *ledger.GRPCClient {
	tb.Helper()

	opts.DialOptions = append(opts.DialOptions, h.dialer)
	c, err := ledger.NewLedgerClient(h.Endpoint, opts)
	if err != nil {
		tb.Fatalf("dial ledger harness: %v", err)
	}
	tb.Cleanup(func() { _ = c.Close() })
	return c
}

// Stop shuts the server down, making further calls fail as unavailable.
func (h *Harness) Stop() {
	h.grpc.Stop()
}
