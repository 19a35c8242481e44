package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	hash, err := ps.Hash("abcdef")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "abcdef" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "abcdef"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := ps.Verify(hash, "wrong-password"); err == nil {
		t.Error("Verify() accepted a wrong password")
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	h1, err := ps.Hash("abcdef")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := ps.Hash("abcdef")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	// Random salts mean identical passwords never share a hash.
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	_, err := ps.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Error("Hash() should reject passwords over 72 bytes")
	}
}
