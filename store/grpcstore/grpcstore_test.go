package grpcstore

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/names/keys"
	"xdao.co/names/naming"
	"xdao.co/names/record"
	"xdao.co/names/store"
	"xdao.co/names/store/inmem"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func dialTestServer(t *testing.T) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterNameStoreServer(srv, &Server{Store: inmem.New()})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewNameStoreClient(cc), Timeout: 2 * time.Second}
}

func signedRecord(t *testing.T, priv keys.PrivateKey, value string, seq uint64) (string, []byte) {
	t.Helper()
	name, err := naming.FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	rec := &record.Record{
		Value:        []byte(value),
		ValidityType: record.ValidityEOL,
		Validity:     record.FormatValidity(time.Now().Add(time.Hour)),
		Sequence:     seq,
	}
	env, err := record.NewEnvelope(rec, priv)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return name.String(), env.Encode()
}

func TestGRPCStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := dialTestServer(t)

	priv, err := keys.GenerateEd25519(&deterministicReader{b: 0x42})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	name, rec := signedRecord(t, priv, "/ipfs/hello", 0)

	if _, err := client.Get(ctx, name); !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound before publish, got %v", err)
	}
	ok, err := client.Has(ctx, name)
	if err != nil || ok {
		t.Fatalf("Has before publish: %v %v", ok, err)
	}

	if err := client.Put(ctx, name, rec, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := client.Get(ctx, name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, rec) {
		t.Fatal("record bytes changed in transit")
	}
	ok, err = client.Has(ctx, name)
	if err != nil || !ok {
		t.Fatalf("Has after publish: %v %v", ok, err)
	}
}

func TestGRPCStore_StaleSequenceRejected(t *testing.T) {
	ctx := context.Background()
	client := dialTestServer(t)

	priv, err := keys.GenerateEd25519(&deterministicReader{b: 0x42})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	name, recSeq1 := signedRecord(t, priv, "/ipfs/second", 1)
	_, recSeq1Again := signedRecord(t, priv, "/ipfs/stale", 1)

	if err := client.Put(ctx, name, recSeq1, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := client.Put(ctx, name, recSeq1Again, 1); !store.IsConflict(err) {
		t.Fatalf("expected ErrConflict for a replayed sequence, got %v", err)
	}

	got, err := client.Get(ctx, name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, recSeq1) {
		t.Fatal("stale write displaced the stored record")
	}
}

func TestGRPCStore_RejectsUnsignedRecords(t *testing.T) {
	ctx := context.Background()
	client := dialTestServer(t)

	if err := client.Put(ctx, "", []byte("not a record"), 0); err == nil {
		t.Fatal("server accepted garbage bytes")
	}
}

func TestGRPCStore_RejectsExpiredRecords(t *testing.T) {
	ctx := context.Background()
	client := dialTestServer(t)

	priv, err := keys.GenerateEd25519(&deterministicReader{b: 0x42})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	name, err := naming.FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	rec := &record.Record{
		Value:        []byte("/ipfs/stale"),
		ValidityType: record.ValidityEOL,
		Validity:     record.FormatValidity(time.Now().Add(-time.Hour)),
	}
	env, err := record.NewEnvelope(rec, priv)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if err := client.Put(ctx, name.String(), env.Encode(), 0); err == nil {
		t.Fatal("server accepted an expired record")
	}
}

func TestGRPCStore_FullSystemOverTheWire(t *testing.T) {
	ctx := context.Background()
	client := dialTestServer(t)
	sys := naming.NewSystem(client)

	priv, err := keys.GenerateEd25519(&deterministicReader{b: 0x42})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}

	r0, err := sys.Publish(ctx, priv, "/ipfs/first")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	r1, err := sys.Publish(ctx, priv, "/ipfs/updated")
	if err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if r1.Sequence() != r0.Sequence()+1 {
		t.Fatalf("sequence did not advance: %d then %d", r0.Sequence(), r1.Sequence())
	}

	got, err := sys.Resolve(ctx, r0.Name())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Value() != "/ipfs/updated" {
		t.Fatalf("resolved %q, want /ipfs/updated", got.Value())
	}
}
