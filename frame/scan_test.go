package frame

import (
	"testing"
)

func TestScanCompleteHeader(t *testing.T) {
	buf := []byte(`{"rpc":"Sum","body_size":13,"is_return":false}`)
	end, ok := ScanHeader(buf)
	if !ok {
		t.Fatal("expect complete header, got incomplete")
	}
	if end != len(buf) {
		t.Fatalf("end offset: got %d, want %d", end, len(buf))
	}
}

func TestScanTrailingBytes(t *testing.T) {
	header := `{"rpc":"Sum","body_size":13,"is_return":false}`
	buf := []byte(header + `{"a":40,"b":2}`)
	end, ok := ScanHeader(buf)
	if !ok {
		t.Fatal("expect complete header, got incomplete")
	}
	if end != len(header) {
		t.Fatalf("end offset: got %d, want %d", end, len(header))
	}
}

func TestScanNotAnObject(t *testing.T) {
	for _, buf := range [][]byte{nil, {}, []byte("abc"), []byte(`"rpc"`)} {
		if _, ok := ScanHeader(buf); ok {
			t.Fatalf("expect no header in %q", buf)
		}
	}
}

func TestScanPartialHeader(t *testing.T) {
	buf := []byte(`{"rpc":"Sum","body_size":13`)
	if _, ok := ScanHeader(buf); ok {
		t.Fatal("expect incomplete for truncated header")
	}
}

func TestScanBraceInsideString(t *testing.T) {
	// A '}' inside a string value must not terminate the scan early.
	buf := []byte(`{"rpc":"we}ird{","body_size":0,"is_return":false}`)
	end, ok := ScanHeader(buf)
	if !ok {
		t.Fatal("expect complete header, got incomplete")
	}
	if end != len(buf) {
		t.Fatalf("end offset: got %d, want %d", end, len(buf))
	}
}

func TestScanNestedObject(t *testing.T) {
	buf := []byte(`{"rpc":"Sum","meta":{"depth":2},"body_size":0,"is_return":false}`)
	end, ok := ScanHeader(buf)
	if !ok {
		t.Fatal("expect complete header, got incomplete")
	}
	if end != len(buf) {
		t.Fatalf("end offset: got %d, want %d", end, len(buf))
	}
}

func TestScanEscapedQuoteInString(t *testing.T) {
	buf := []byte(`{"rpc":"a\"}b","body_size":0,"is_return":false}`)
	end, ok := ScanHeader(buf)
	if !ok {
		t.Fatal("expect complete header, got incomplete")
	}
	if end != len(buf) {
		t.Fatalf("end offset: got %d, want %d", end, len(buf))
	}
}
