package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ipfs/go-cid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/abiparam/abi"
	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/storage"
	"xdao.co/abiparam/storage/memcas"
)

const sampleABI = `[
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"name":"value","type":"uint256"}]}
]`

func startServer(t *testing.T, srv *Server, log *zap.Logger) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(ServerOptions(log, 0)...)
	RegisterResolverServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	client, err := Dial("passthrough:///bufnet", DialOptions{
		Timeout: 2 * time.Second,
		Extra:   []grpc.DialOption{grpc.WithContextDialer(dialer)},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestResolveParam(t *testing.T) {
	client := startServer(t, &Server{}, zap.NewNop())

	got, err := client.ResolveParam(context.Background(), []byte(
		`{"name":"orders","type":"tuple[]","components":[{"name":"maker","type":"address"},{"name":"amount","type":"uint"}]}`))
	if err != nil {
		t.Fatalf("ResolveParam: %v", err)
	}
	want := model.Param{
		Name: "orders",
		Type: "tuple[]",
		Components: []model.Param{
			{Name: "", Type: "address"},
			{Name: "", Type: "uint256"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ResolveParam mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveParam_Rejected(t *testing.T) {
	client := startServer(t, &Server{}, zap.NewNop())

	cases := []string{
		`{"name":"a","name":"b","type":"bool"}`,
		`{"type":"bool"}`,
		`{"name":"x","type":"uint7"}`,
		`[]`,
	}
	for _, in := range cases {
		_, err := client.ResolveParam(context.Background(), []byte(in))
		var coded *model.CodedError
		if !errors.As(err, &coded) || coded.Code != model.ErrInvalidRecord {
			t.Fatalf("%s: expected INVALID_RECORD, got %v", in, err)
		}
	}
}

func TestSignatures(t *testing.T) {
	client := startServer(t, &Server{}, zap.NewNop())

	got, err := client.Signatures(context.Background(), []byte(sampleABI))
	if err != nil {
		t.Fatalf("Signatures: %v", err)
	}
	want := []string{
		"0xa9059cbb transfer(address,uint256)",
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef Transfer(address,address,uint256)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Signatures mismatch (-want +got):\n%s", diff)
	}

	_, err = client.Signatures(context.Background(), []byte(`[{"type":"modifier","name":"m"}]`))
	var coded *model.CodedError
	if !errors.As(err, &coded) || coded.Code != model.ErrInvalidABI {
		t.Fatalf("expected INVALID_ABI, got %v", err)
	}
}

func TestPublishFetch(t *testing.T) {
	cas := memcas.New()
	client := startServer(t, &Server{CAS: cas}, zap.NewNop())
	ctx := context.Background()

	id, err := client.Publish(ctx, []byte(sampleABI))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	c, err := abi.Parse([]byte(sampleABI))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want, err := c.Canonical()
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if err := cidutil.Verify(id, want); err != nil {
		t.Fatalf("published CID does not address canonical bytes: %v", err)
	}
	if !cas.Has(id) {
		t.Fatalf("CAS does not hold published description")
	}

	got, err := client.Fetch(ctx, id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("Fetch bytes mismatch:\n%s\n%s", got, want)
	}
}

func TestFetch_Errors(t *testing.T) {
	cas := memcas.New()
	client := startServer(t, &Server{CAS: cas}, zap.NewNop())
	ctx := context.Background()

	missing, err := cidutil.Sum([]byte("missing"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := client.Fetch(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := client.Fetch(ctx, cid.Undef); !errors.Is(err, storage.ErrInvalidCID) {
		t.Fatalf("expected ErrInvalidCID, got %v", err)
	}

	loose, err := cas.Put([]byte(`[ {"type":"function","name":"f","inputs":[]} ]`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := client.Fetch(ctx, loose); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("expected non-canonical bytes to be refused, got %v", err)
	}
}

func TestMissingCAS(t *testing.T) {
	client := startServer(t, &Server{}, zap.NewNop())

	_, err := client.Publish(context.Background(), []byte(sampleABI))
	var coded *model.CodedError
	if !errors.As(err, &coded) || coded.Code != model.ErrMissingCAS {
		t.Fatalf("expected MISSING_CAS, got %v", err)
	}
}

func TestUnaryLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	client := startServer(t, &Server{}, zap.New(core))

	if _, err := client.ResolveParam(context.Background(), []byte(`{"name":"a","type":"bool"}`)); err != nil {
		t.Fatalf("ResolveParam: %v", err)
	}
	_, _ = client.ResolveParam(context.Background(), []byte(`{"name":"a"}`))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[0].ContextMap()["code"] != "OK" {
		t.Fatalf("unexpected success entry: %+v", entries[0])
	}
	if entries[1].Level != zap.WarnLevel || entries[1].ContextMap()["code"] != "InvalidArgument" {
		t.Fatalf("unexpected rejection entry: %+v", entries[1])
	}
	if m := entries[1].ContextMap()["method"]; m != "/xdao.abiparam.rpc.v1.Resolver/ResolveParam" {
		t.Fatalf("unexpected method field: %v", m)
	}
}
