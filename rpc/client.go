package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/storage"
)

// Client calls a Resolver service.
type Client struct {
	cc     *grpc.ClientConn
	client ResolverClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Extra is appended to the default dial options.
	Extra []grpc.DialOption
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
	dialOpts = append(dialOpts, opts.Extra...)

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewResolverClient(cc), Timeout: opts.Timeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// ResolveParam resolves one JSON parameter record on the server.
func (c *Client) ResolveParam(ctx context.Context, record []byte) (model.Param, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.ResolveParam(ctx, wrapperspb.String(string(record)))
	if err != nil {
		return model.Param{}, mapRPC(err)
	}
	var p model.Param
	if err := json.Unmarshal([]byte(reply.GetValue()), &p); err != nil {
		return model.Param{}, model.NewError(model.ErrInternal, "malformed reply: "+err.Error())
	}
	return p, nil
}

// Signatures returns the "0x<selector> <signature>" lines of a description.
func (c *Client) Signatures(ctx context.Context, description []byte) ([]string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Signatures(ctx, wrapperspb.Bytes(description))
	if err != nil {
		return nil, mapRPC(err)
	}
	if reply.GetValue() == "" {
		return nil, nil
	}
	return strings.Split(reply.GetValue(), "\n"), nil
}

// Publish stores a description in the server's CAS.
func (c *Client) Publish(ctx context.Context, description []byte) (cid.Cid, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Publish(ctx, wrapperspb.Bytes(description))
	if err != nil {
		return cid.Undef, mapRPC(err)
	}
	id, err := cid.Decode(reply.GetValue())
	if err != nil || !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}
	return id, nil
}

// Fetch returns the canonical bytes stored under id. The bytes are checked
// against id before they are returned.
func (c *Client) Fetch(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Fetch(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	if err := cidutil.Verify(id, b); err != nil {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
