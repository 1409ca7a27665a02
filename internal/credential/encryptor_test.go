package credential

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestAEADEncryptorRoundTrip(t *testing.T) {
	enc, err := NewAEADEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewAEADEncryptor: %v", err)
	}
	cases := []string{"", "hunter2", "unicode: 猫🐾", string(bytes.Repeat([]byte{1}, 4096))}
	for _, want := range cases {
		ct, err := enc.Encrypt([]byte(want))
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", want, err)
		}
		got, err := enc.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", want, err)
		}
		if string(got) != want {
			t.Fatalf("round trip mismatch: got %q want %q", got, want)
		}
	}
}

func TestAEADEncryptorRejectsBadKeySize(t *testing.T) {
	if _, err := NewAEADEncryptor(make([]byte, 16)); err == nil {
		t.Fatal("expected error for 16-byte key")
	}
	if _, err := NewAEADEncryptor(make([]byte, 64)); err == nil {
		t.Fatal("expected error for 64-byte key")
	}
}

func TestAEADEncryptorTamperedCiphertextFails(t *testing.T) {
	enc, err := NewAEADEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewAEADEncryptor: %v", err)
	}
	ct, err := enc.Encrypt([]byte("hunter2"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tampered := make([]byte, len(raw))
	copy(tampered, raw)
	tampered[len(tampered)-1] ^= 0xFF
	tamperedCT := base64.StdEncoding.EncodeToString(tampered)

	if _, err := enc.Decrypt(tamperedCT); err == nil {
		t.Fatal("expected decryption of tampered ciphertext to fail")
	}
}

func TestAEADEncryptorMissingNonceFails(t *testing.T) {
	enc, err := NewAEADEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewAEADEncryptor: %v", err)
	}
	tooShort := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := enc.Decrypt(tooShort); err == nil {
		t.Fatal("expected error for ciphertext shorter than nonce")
	}
}
