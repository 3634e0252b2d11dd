package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake contract stub
 *************/

type fakeContract struct {
	lastQueryReq   *QueryRequest
	lastSendReq    *SendRequest
	lastStorageReq *StorageRequest

	queryResp *QueryResponse
	queryErr  error

	sendResp *SendResponse
	sendErr  error

	storageResp *StorageResponse
	storageErr  error

	pingResp *PingResponse
	pingErr  error
}

func (f *fakeContract) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	f.lastQueryReq = in
	return f.queryResp, f.queryErr
}

func (f *fakeContract) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error) {
	f.lastSendReq = in
	return f.sendResp, f.sendErr
}

func (f *fakeContract) ReadStorage(ctx context.Context, in *StorageRequest, opts ...grpc.CallOption) (*StorageResponse, error) {
	f.lastStorageReq = in
	return f.storageResp, f.storageErr
}

func (f *fakeContract) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return f.pingResp, f.pingErr
}

/*************
 * Query tests
 *************/

func TestQuery_AllRatings(t *testing.T) {
	recs := []models.RatingRecord{{SubjectID: 7, ArticleScore: 5}}
	f := &fakeContract{queryResp: &QueryResponse{Success: true, Value: &QueryValue{Response: recs}}}
	c := &GRPCClient{client: f}

	got, err := c.Query(context.Background(), MethodGetAllRatings, "0xabc", nil)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
	assert.Equal(t, MethodGetAllRatings, f.lastQueryReq.Method)
	assert.Equal(t, "0xabc", f.lastQueryReq.Origin)
	assert.Nil(t, f.lastQueryReq.Data)
}

func TestQuery_ForSubjectSendsData(t *testing.T) {
	f := &fakeContract{queryResp: &QueryResponse{Success: true, Value: &QueryValue{}}}
	c := &GRPCClient{client: f}
	subject := uint32(7)

	got, err := c.Query(context.Background(), MethodGetRatingsForSubject, "0xabc", &subject)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NotNil(t, f.lastQueryReq.Data)
	assert.Equal(t, uint32(7), *f.lastQueryReq.Data.SubjectID)

	// the request holds its own copy
	subject = 8
	assert.Equal(t, uint32(7), *f.lastQueryReq.Data.SubjectID)
}

func TestQuery_UnsuccessfulIsRejection(t *testing.T) {
	f := &fakeContract{queryResp: &QueryResponse{Success: false, Error: "ContractTrapped"}}
	c := &GRPCClient{client: f}

	_, err := c.Query(context.Background(), MethodGetAllRatings, "0xabc", nil)
	require.ErrorIs(t, err, common.ErrRejected)
	var rr *common.RemoteRejection
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, "ContractTrapped", rr.Message)
}

func TestQuery_MissingValueIsMalformed(t *testing.T) {
	f := &fakeContract{queryResp: &QueryResponse{Success: true}}
	c := &GRPCClient{client: f}

	_, err := c.Query(context.Background(), MethodGetAllRatings, "0xabc", nil)
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

/*************
 * Send tests
 *************/

func TestSend_ReturnsHash(t *testing.T) {
	f := &fakeContract{sendResp: &SendResponse{Ok: true, Hash: "0xfeed"}}
	c := &GRPCClient{client: f}
	req := &SendRequest{Method: MethodSubmitRating, Origin: "0xabc", Signature: []byte{1}}

	hash, err := c.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", hash)
	assert.Same(t, req, f.lastSendReq)
}

func TestSend_DispatchErrorIsRejection(t *testing.T) {
	f := &fakeContract{sendResp: &SendResponse{Ok: false, DispatchError: "Module(Revive): ContractReverted"}}
	c := &GRPCClient{client: f}

	_, err := c.Send(context.Background(), &SendRequest{Method: MethodSubmitRating})
	var rr *common.RemoteRejection
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, "Module(Revive): ContractReverted", rr.Message)
}

func TestSend_EmptyHashIsMalformed(t *testing.T) {
	f := &fakeContract{sendResp: &SendResponse{Ok: true}}
	c := &GRPCClient{client: f}

	_, err := c.Send(context.Background(), &SendRequest{Method: MethodSubmitRating})
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

/*************
 * ReadStorage / Ping tests
 *************/

func TestReadStorage(t *testing.T) {
	f := &fakeContract{storageResp: &StorageResponse{Found: true, Value: []byte{1, 2}}}
	c := &GRPCClient{client: f}

	v, err := c.ReadStorage(context.Background(), []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)
	assert.Equal(t, []byte("k"), f.lastStorageReq.Key)

	f.storageResp = &StorageResponse{Found: false}
	_, err = c.ReadStorage(context.Background(), []byte("k"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPing(t *testing.T) {
	f := &fakeContract{pingResp: &PingResponse{Status: "OK"}}
	c := &GRPCClient{client: f}
	require.NoError(t, c.Ping(context.Background()))

	f.pingResp = &PingResponse{Status: "SYNCING"}
	require.ErrorIs(t, c.Ping(context.Background()), common.ErrUnavailable)

	f.pingErr = status.Error(codes.Unavailable, "down")
	require.ErrorIs(t, c.Ping(context.Background()), common.ErrUnavailable)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		is   error
	}{
		{"unavailable", status.Error(codes.Unavailable, "x"), common.ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), common.ErrUnavailable},
		{"rate limited", status.Error(codes.ResourceExhausted, "x"), common.ErrUnavailable},
		{"ctx deadline", context.DeadlineExceeded, common.ErrUnavailable},
		{"not found", status.Error(codes.NotFound, "x"), common.ErrNotFound},
		{"invalid", status.Error(codes.InvalidArgument, "bad subject"), common.ErrRejected},
		{"precondition", status.Error(codes.FailedPrecondition, "x"), common.ErrRejected},
		{"denied", status.Error(codes.PermissionDenied, "x"), common.ErrRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, c.mapError("op", tt.in), tt.is)
		})
	}

	require.Nil(t, c.mapError("op", nil))

	other := status.Error(codes.Internal, "boom")
	err := c.mapError("op", other)
	require.ErrorIs(t, err, other)
	assert.False(t, errors.Is(err, common.ErrUnavailable))

	var rr *common.RemoteRejection
	require.ErrorAs(t, c.mapError("op", status.Error(codes.InvalidArgument, "bad subject")), &rr)
	assert.Equal(t, "bad subject", rr.Message)
}

/*************
 * interceptor tests
 *************/

func TestMetadataInterceptor_AddsKeyAndCorrelation(t *testing.T) {
	c := &GRPCClient{opts: Options{APIKey: "secret"}}

	var got metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		got, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), "other", "kept")
	ctx = WithCorrelationID(ctx, "corr-1")
	require.NoError(t, c.metadataInterceptor(ctx, "/m", nil, nil, nil, invoker))

	assert.Equal(t, []string{"secret"}, got.Get(common.APIKeyHeaderName))
	assert.Equal(t, []string{"corr-1"}, got.Get(common.CorrelationIDHeaderName))
	assert.Equal(t, []string{"kept"}, got.Get("other"))
}

func TestMetadataInterceptor_NoKeyNoHeader(t *testing.T) {
	c := &GRPCClient{}

	var got metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		got, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}
	require.NoError(t, c.metadataInterceptor(context.Background(), "/m", nil, nil, nil, invoker))
	assert.Empty(t, got.Get(common.APIKeyHeaderName))
	assert.Empty(t, got.Get(common.CorrelationIDHeaderName))
}

func TestRateLimitInterceptor_FailsWhenContextDone(t *testing.T) {
	c, err := NewLedgerClient("passthrough:///unused", Options{RequestsPerSecond: 0.001, Burst: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	calls := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		return nil
	}

	// the burst token lets the first call through
	require.NoError(t, c.rateLimitInterceptor(context.Background(), "/m", nil, nil, nil, invoker))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.rateLimitInterceptor(ctx, "/m", nil, nil, nil, invoker)
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, 1, calls)
}
