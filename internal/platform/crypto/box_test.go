package crypto

import "testing"

const testKey = "0123456789abcdef0123456789abcdef"

func TestSealFieldRoundTrip(t *testing.T) {
	box, err := New(testKey)
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	plain, sealed, err := box.SealField("RW-000-1234")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if plain != "" || len(sealed) == 0 {
		t.Fatalf("expected only sealed column, got plain=%q sealed=%d bytes", plain, len(sealed))
	}
	opened, err := box.OpenField(plain, sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "RW-000-1234" {
		t.Fatalf("expected round trip, got %q", opened)
	}
}

func TestUnconfiguredBoxPassesThrough(t *testing.T) {
	box, err := New("")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	plain, sealed, err := box.SealField("acct")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if plain != "acct" || sealed != nil {
		t.Fatalf("expected pass-through, got %q %v", plain, sealed)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected key length error")
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	box, _ := New(testKey)
	sealed, err := box.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := box.Open(sealed); err == nil {
		t.Fatal("expected authentication failure")
	}
	if _, err := box.Open([]byte{1, 2}); err != ErrCiphertextTooShort {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}
