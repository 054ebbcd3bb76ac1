package grpcstore

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client implements store.Store over the NameStore gRPC service.
//
// The name and sequence arguments of Put are enforced server-side from the
// record itself; the client only ships the bytes.
type Client struct {
	cc     *grpc.ClientConn
	client NameStoreClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewNameStoreClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) Get(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	out, err := c.client.Get(ctx, wrapperspb.String(name))
	if err != nil {
		return nil, mapRPC(err)
	}
	return out.GetValue(), nil
}

func (c *Client) Put(ctx context.Context, name string, rec []byte, seq uint64) error {
	_ = name // derived server-side from the record's embedded key
	_ = seq  // enforced server-side against the stored record
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	_, err := c.client.Put(ctx, wrapperspb.Bytes(rec))
	if err != nil {
		return mapRPC(err)
	}
	return nil
}

func (c *Client) Has(ctx context.Context, name string) (bool, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	out, err := c.client.Has(ctx, wrapperspb.String(name))
	if err != nil {
		return false, mapRPC(err)
	}
	return out.GetValue(), nil
}
