package security

import (
	"encoding/hex"
	"testing"
)

func TestNewSessionToken_Unique(t *testing.T) {
	codec, err := NewCodec("hex")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewSessionToken(codec)
		if err != nil {
			t.Fatalf("NewSessionToken: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %s", tok)
		}
		seen[tok] = true

		raw, err := hex.DecodeString(tok)
		if err != nil {
			t.Fatalf("token is not valid hex: %v", err)
		}
		if len(raw) != TokenBytes {
			t.Fatalf("token has %d bytes of entropy, want %d", len(raw), TokenBytes)
		}
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, name := range []string{"base64", "hex"} {
		codec, err := NewCodec(name)
		if err != nil {
			t.Fatalf("NewCodec(%s): %v", name, err)
		}
		in := []byte{0x00, 0x01, 0xfe, 0xff, 0x42}
		out, err := codec.DecodeString(codec.EncodeToString(in))
		if err != nil {
			t.Fatalf("%s round trip: %v", name, err)
		}
		if string(out) != string(in) {
			t.Errorf("%s round trip mismatch", name)
		}
	}
}

func TestNewCodec_RejectsUnknown(t *testing.T) {
	if _, err := NewCodec("base32"); err == nil {
		t.Fatal("NewCodec accepted unknown encoding")
	}
}
