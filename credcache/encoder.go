package credcache

import (
	"bytes"
	"errors"
	"io"
)

const identityFormatVersion1 = 1

// Identity is the cached copy of a logged-in user as returned by the login
// OTP verification response.
type Identity struct {
	Email    string
	Role     string
	Username string
}

// EncodeIdentity serializes an identity as a version-byte, length-prefixed
// binary record.
func EncodeIdentity(id Identity) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(identityFormatVersion1)

	for _, field := range []string{id.Email, id.Role, id.Username} {
		if len(field) > 255 {
			return nil, errors.New("identity field too long")
		}
		buf.WriteByte(byte(len(field)))
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

// DecodeIdentity parses a record produced by EncodeIdentity. Unknown versions
// and truncated records fail closed.
func DecodeIdentity(data []byte) (Identity, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Identity{}, err
	}
	if version != identityFormatVersion1 {
		return Identity{}, errors.New("invalid identity record version")
	}

	fields := make([]string, 3)
	for i := range fields {
		length, err := reader.ReadByte()
		if err != nil {
			return Identity{}, err
		}
		value := make([]byte, length)
		if _, err := io.ReadFull(reader, value); err != nil {
			return Identity{}, err
		}
		fields[i] = string(value)
	}

	if reader.Len() != 0 {
		return Identity{}, errors.New("trailing bytes in identity record")
	}

	return Identity{Email: fields[0], Role: fields[1], Username: fields[2]}, nil
}
