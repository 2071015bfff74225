// Package rpc serves parameter resolution and interface-description storage
// over gRPC.
package rpc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/abiparam/abi"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/param"
	"xdao.co/abiparam/storage"
)

// Server implements the Resolver service. CAS is required by Publish and
// Fetch only.
type Server struct {
	UnimplementedResolverServer
	CAS storage.CAS
}

func (s *Server) ResolveParam(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	p, err := param.ParseJSON([]byte(in.GetValue()))
	if err != nil {
		return nil, mapErr(err, model.ErrInvalidRecord)
	}
	b, err := json.Marshal(model.FromParam(p))
	if err != nil {
		return nil, statusError(codes.Internal, model.ErrInternal, err.Error())
	}
	return wrapperspb.String(string(b)), nil
}

func (s *Server) Signatures(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	c, err := abi.Parse(in.GetValue())
	if err != nil {
		return nil, mapErr(err, model.ErrInvalidABI)
	}
	return wrapperspb.String(strings.Join(c.Signatures(), "\n")), nil
}

func (s *Server) Publish(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, statusError(codes.FailedPrecondition, model.ErrMissingCAS, "missing CAS")
	}
	c, err := abi.Parse(in.GetValue())
	if err != nil {
		return nil, mapErr(err, model.ErrInvalidABI)
	}
	id, err := abi.Publish(s.CAS, c)
	if err != nil {
		return nil, mapErr(err, model.ErrInvalidABI)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Fetch(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, statusError(codes.FailedPrecondition, model.ErrMissingCAS, "missing CAS")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, statusError(codes.InvalidArgument, model.ErrInvalidCID, storage.ErrInvalidCID.Error())
	}
	c, err := abi.Fetch(s.CAS, id)
	if err != nil {
		return nil, mapErr(err, model.ErrInvalidABI)
	}
	b, err := c.Canonical()
	if err != nil {
		return nil, statusError(codes.Internal, model.ErrInternal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}
