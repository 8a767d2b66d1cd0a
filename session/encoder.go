package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/jwt"
)

// ErrMalformedRecord is returned by a [Codec] when a persisted record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed session record")

const recordFormatVersionV1 = 1

// CurrentSchemaVersion is the record layout written by [BinaryCodec] and [SignedCodec].
const CurrentSchemaVersion = recordFormatVersionV1

// Codec converts a Session to and from its persisted bytes.
type Codec interface {
	Encode(s Session) ([]byte, error)
	Decode(data []byte) (Session, error)
}

// BinaryCodec writes the v1 layout:
//
//	[version u8][len u8][session id][len u8][id][len u8][name][len u8][email]
//	[len u8][role][len u16][avatar][created_at i64 BE]
type BinaryCodec struct{}

// Encode encodes s in the v1 layout.
func (BinaryCodec) Encode(s Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersionV1)

	for _, f := range []struct {
		name  string
		value string
	}{
		{"session id", s.ID},
		{"id", s.Identity.ID},
		{"name", s.Identity.Name},
		{"email", s.Identity.Email},
		{"role", s.Identity.Role.String()},
	} {
		if len(f.value) > 255 {
			return nil, fmt.Errorf("%s too long", f.name)
		}
		buf.WriteByte(byte(len(f.value)))
		buf.WriteString(f.value)
	}

	if len(s.Identity.Avatar) > 0xFFFF {
		return nil, errors.New("avatar too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.Identity.Avatar))); err != nil {
		return nil, err
	}
	buf.WriteString(s.Identity.Avatar)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt.Unix()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses the v1 layout. Unknown versions, truncation, trailing bytes and
// identities that fail validation all yield [ErrMalformedRecord].
func (BinaryCodec) Decode(data []byte) (Session, error) {
	s, err := decodeBinary(data)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return s, nil
}

func decodeBinary(data []byte) (Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Session{}, err
	}
	if version != recordFormatVersionV1 {
		return Session{}, fmt.Errorf("unsupported record version %d", version)
	}

	var fields [5]string
	for i := range fields {
		n, err := reader.ReadByte()
		if err != nil {
			return Session{}, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(reader, b); err != nil {
			return Session{}, err
		}
		fields[i] = string(b)
	}

	var avatarLen uint16
	if err := binary.Read(reader, binary.BigEndian, &avatarLen); err != nil {
		return Session{}, err
	}
	avatar := make([]byte, avatarLen)
	if _, err := io.ReadFull(reader, avatar); err != nil {
		return Session{}, err
	}

	var createdAt int64
	if err := binary.Read(reader, binary.BigEndian, &createdAt); err != nil {
		return Session{}, err
	}
	if reader.Len() != 0 {
		return Session{}, errors.New("trailing bytes")
	}

	return build(fields[0], fields[1], fields[2], fields[3], fields[4], string(avatar), createdAt)
}

// SignedCodec stores the record as a JWT signed by a [jwt.Manager]. A record whose
// signature, algorithm or key id does not verify decodes as malformed.
type SignedCodec struct {
	manager *jwt.Manager
}

// NewSignedCodec returns a SignedCodec using m.
func NewSignedCodec(m *jwt.Manager) *SignedCodec {
	return &SignedCodec{manager: m}
}

// Encode signs s.
func (c *SignedCodec) Encode(s Session) ([]byte, error) {
	token, err := c.manager.Sign(jwt.RecordClaims{
		Version:   recordFormatVersionV1,
		SessionID: s.ID,
		UserID:    s.Identity.ID,
		Name:      s.Identity.Name,
		Email:     s.Identity.Email,
		Role:      s.Identity.Role.String(),
		Avatar:    s.Identity.Avatar,
	}, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return []byte(token), nil
}

// Decode verifies and unpacks a signed record.
func (c *SignedCodec) Decode(data []byte) (Session, error) {
	claims, err := c.manager.Parse(string(data))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if claims.Version != recordFormatVersionV1 {
		return Session{}, fmt.Errorf("%w: unsupported record version %d", ErrMalformedRecord, claims.Version)
	}
	var createdAt int64
	if claims.IssuedAt != nil {
		createdAt = claims.IssuedAt.Unix()
	}

	s, err := build(claims.SessionID, claims.UserID, claims.Name, claims.Email, claims.Role, claims.Avatar, createdAt)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return s, nil
}

func build(sid, id, name, email, role, avatar string, createdAt int64) (Session, error) {
	if sid == "" {
		return Session{}, errors.New("missing session id")
	}
	r, err := identity.ParseRole(role)
	if err != nil {
		return Session{}, err
	}
	who, err := identity.New(id, name, email, r, avatar)
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        sid,
		Identity:  who,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
