package credcache

import (
	"bytes"
	"testing"
)

// FuzzDecodeIdentity exercises the identity decoder with arbitrary inputs.
// Goal: no panics, graceful errors, and round-trip stability for valid
// records.
func FuzzDecodeIdentity(f *testing.F) {
	encoded, err := EncodeIdentity(Identity{Email: "a@b.com", Role: "player", Username: "alice"})
	if err == nil {
		f.Add(encoded)
	}

	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{1})
	f.Add([]byte{255, 255, 255})
	if len(encoded) > 4 {
		f.Add(encoded[:4])
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		id, err := DecodeIdentity(data)
		if err != nil {
			return
		}
		reencoded, err := EncodeIdentity(id)
		if err != nil {
			t.Fatalf("decoded identity failed to re-encode: %v", err)
		}
		if !bytes.Equal(reencoded, data) {
			t.Fatalf("round trip mismatch: %x vs %x", reencoded, data)
		}
	})
}

func TestIdentityRoundTrip(t *testing.T) {
	cases := []Identity{
		{Email: "a@b.com", Role: "player", Username: "alice"},
		{Email: "coordinator@club.org", Role: "coordinator"},
		{},
	}
	for _, want := range cases {
		encoded, err := EncodeIdentity(want)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := DecodeIdentity(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
		}
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	encoded, _ := EncodeIdentity(Identity{Email: "a@b.com"})
	encoded[0] = 9
	if _, err := DecodeIdentity(encoded); err == nil {
		t.Fatal("unknown version must be rejected")
	}
}

func TestEncodeRejectsOversizedField(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := EncodeIdentity(Identity{Email: string(long)}); err == nil {
		t.Fatal("oversized field must be rejected")
	}
}
