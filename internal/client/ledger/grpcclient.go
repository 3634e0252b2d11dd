package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Options tune a GRPCClient. The zero value is usable: no API key, no
// per-call timeout and no rate limit.
type Options struct {
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// DialOptions are appended after the defaults (tests pass a bufconn dialer).
	DialOptions []grpc.DialOption
}

type GRPCClient struct {
	endpointURL string
	opts        Options
	conn        *grpc.ClientConn
	client      contractClient
	limiter     *rate.Limiter
}

type correlationKey struct{}

// WithCorrelationID returns a context whose outgoing calls carry id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

func NewLedgerClient(endpointURL string, opts Options) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, opts: opts}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *GRPCClient) InitGRPCClient() error {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(c.rateLimitInterceptor, c.metadataInterceptor),
	}
	dialOpts = append(dialOpts, c.opts.DialOptions...)

	conn, err := grpc.NewClient(c.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	c.conn = conn
	c.client = newContractClient(conn)
	return nil
}

func (c *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	if c.opts.APIKey != "" {
		md.Set(common.APIKeyHeaderName, c.opts.APIKey)
	}
	if id := correlationID(ctx); id != "" {
		md.Set(common.CorrelationIDHeaderName, id)
	}
	return invoker(metadata.NewOutgoingContext(ctx, md), method, req, reply, cc, opts...)
}

func (c *GRPCClient) rateLimitInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return status.Error(codes.ResourceExhausted, err.Error())
		}
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.client.Ping(ctx, &PingRequest{})
	if err != nil {
		return c.mapError("ping", err)
	}
	if resp.Status != "OK" {
		return &common.ConnectivityError{Op: "ping", Err: fmt.Errorf("status %q", resp.Status)}
	}
	return nil
}

func (c *GRPCClient) Query(ctx context.Context, method string, origin string, subjectID *uint32) ([]models.RatingRecord, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	req := &QueryRequest{Method: method, Origin: origin}
	if subjectID != nil {
		id := *subjectID
		req.Data = &QueryData{SubjectID: &id}
	}

	resp, err := c.client.Query(ctx, req)
	if err != nil {
		return nil, c.mapError("query "+method, err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "query failed"
		}
		return nil, &common.RemoteRejection{Op: "query " + method, Message: msg}
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("query %s: %w: missing value", method, common.ErrMalformedResponse)
	}
	return resp.Value.Response, nil
}

func (c *GRPCClient) Send(ctx context.Context, req *SendRequest) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.client.Send(ctx, req)
	if err != nil {
		return "", c.mapError("send "+req.Method, err)
	}
	if !resp.Ok {
		msg := resp.DispatchError
		if msg == "" {
			msg = "dispatch failed"
		}
		return "", &common.RemoteRejection{Op: "send " + req.Method, Message: msg}
	}
	if resp.Hash == "" {
		return "", fmt.Errorf("send %s: %w: empty hash", req.Method, common.ErrMalformedResponse)
	}
	return resp.Hash, nil
}

func (c *GRPCClient) ReadStorage(ctx context.Context, key []byte) ([]byte, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.client.ReadStorage(ctx, &StorageRequest{Key: key})
	if err != nil {
		return nil, c.mapError("read storage", err)
	}
	if !resp.Found {
		return nil, fmt.Errorf("read storage: %w", common.ErrNotFound)
	}
	return resp.Value, nil
}

func (c *GRPCClient) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &common.ConnectivityError{Op: op, Err: err}
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: rpc error: %w", op, err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Canceled:
		return &common.ConnectivityError{Op: op, Err: err}
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	case codes.InvalidArgument, codes.FailedPrecondition, codes.PermissionDenied,
		codes.Unauthenticated, codes.Aborted, codes.AlreadyExists:
		return &common.RemoteRejection{Op: op, Message: st.Message()}
	default:
		return fmt.Errorf("%s: rpc error: %w", op, err)
	}
}
