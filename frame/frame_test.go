package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	body := []byte(`{"msg":"hello"}`)
	buf, err := Encode(&Header{RPC: "ExampleRpc", IsReturn: false}, body)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	h, decodedBody, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if h.RPC != "ExampleRpc" {
		t.Errorf("RPC mismatch: got %s, want ExampleRpc", h.RPC)
	}
	if h.IsReturn {
		t.Error("IsReturn: got true, want false")
	}
	if h.BodySize != uint32(len(body)) {
		t.Errorf("BodySize mismatch: got %d, want %d", h.BodySize, len(body))
	}
	if !bytes.Equal(decodedBody, body) {
		t.Errorf("Body mismatch: got %s, want %s", decodedBody, body)
	}
	if n != len(buf) {
		t.Errorf("consumed: got %d, want %d", n, len(buf))
	}
}

func TestDecodeIncomplete(t *testing.T) {
	buf, err := Encode(&Header{RPC: "Sum", IsReturn: true}, []byte(`{"sum":42}`))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Every strict prefix must report incomplete, never a violation.
	for i := 0; i < len(buf); i++ {
		_, _, _, err := Decode(buf[:i])
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("prefix of %d bytes: got %v, want ErrIncomplete", i, err)
		}
	}
}

func TestDecodeBodyStillInFlight(t *testing.T) {
	// Complete header declaring more body bytes than the buffer holds.
	buf := []byte(`{"rpc":"Sum","body_size":100,"is_return":false}{"a":1`)
	_, _, _, err := Decode(buf)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("got %v, want ErrIncomplete", err)
	}
}

func TestDecodeMalformedHeader(t *testing.T) {
	buf := []byte(`{"rpc":}`)
	_, _, _, err := Decode(buf)
	if err == nil {
		t.Fatal("expect error for malformed header")
	}
	if errors.Is(err, ErrIncomplete) {
		t.Fatal("malformed header must be a violation, not incomplete")
	}
}

func TestDecodeMissingRPC(t *testing.T) {
	buf := []byte(`{"body_size":0,"is_return":false}`)
	_, _, _, err := Decode(buf)
	if err == nil {
		t.Fatal("expect error for header without rpc identifier")
	}
	if errors.Is(err, ErrIncomplete) {
		t.Fatal("missing rpc must be a violation, not incomplete")
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	buf, err := Encode(&Header{RPC: "Sum", IsReturn: true, Error: "boom"}, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	h, body, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if h.BodySize != 0 || len(body) != 0 {
		t.Errorf("expect empty body, got BodySize=%d len=%d", h.BodySize, len(body))
	}
	if h.Error != "boom" {
		t.Errorf("Error mismatch: got %q, want %q", h.Error, "boom")
	}
	if n != len(buf) {
		t.Errorf("consumed: got %d, want %d", n, len(buf))
	}
}
