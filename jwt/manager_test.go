package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func sampleClaims() RecordClaims {
	return RecordClaims{
		Version:   1,
		SessionID: "sid-1",
		UserID:    "1",
		Name:      "Admin User",
		Email:     "admin@nexus.com",
		Role:      "ADMIN",
		Avatar:    "https://picsum.photos/seed/admin/200",
	}
}

func TestSignParseRoundTripHS256(t *testing.T) {
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: testSecret, Issuer: "nexus"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.Sign(sampleClaims(), time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.SessionID != "sid-1" || got.Role != "ADMIN" || got.Email != "admin@nexus.com" {
		t.Fatalf("unexpected claims: %+v", got)
	}
	if got.Subject != "1" {
		t.Fatalf("expected subject 1, got %q", got.Subject)
	}
}

func TestSignParseRoundTripEd25519(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.Sign(sampleClaims(), time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseRejectsTamperedPayload(t *testing.T) {
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: testSecret})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.Sign(sampleClaims(), time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := sampleClaims()
	other.Role = "USER"
	forged, err := m.Sign(other, time.Now())
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := m.Parse(spliced); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected ErrRecordInvalid for spliced token, got %v", err)
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, sampleClaims())
	token, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected wrong algorithm to be rejected, got %v", err)
	}
}

func TestParseRejectsFutureIssuedAt(t *testing.T) {
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: testSecret, MaxFutureIAT: time.Minute})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.Sign(sampleClaims(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected future iat to be rejected, got %v", err)
	}
}

func TestParseUnknownKidFails(t *testing.T) {
	pub, priv := newEdKeys(t)
	signer, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, KeyID: "old"})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := signer.Sign(sampleClaims(), time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verifier, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		VerifyKeys:    map[string][]byte{"new": pub},
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected unknown kid to be rejected, got %v", err)
	}
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte("short")}); err == nil {
		t.Fatal("expected short hs256 secret to be rejected")
	}
	if _, err := NewManager(Config{SigningMethod: "rs256", PrivateKey: testSecret}); err == nil {
		t.Fatal("expected unsupported method to be rejected")
	}
}

func FuzzParse(f *testing.F) {
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: testSecret})
	if err != nil {
		f.Fatal(err)
	}
	valid, err := m.Sign(sampleClaims(), time.Now())
	if err != nil {
		f.Fatal(err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJub25lIn0.eyJ1aWQiOiJ0ZXN0In0.")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := m.Parse(input)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("nil claims without error")
		}
	})
}
