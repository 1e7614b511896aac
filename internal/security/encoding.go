package security

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Codec encodes binary key and token material for text interfaces.
// The zero value encodes base64.
type Codec struct {
	useHex bool
}

// NewCodec returns a Codec for the named encoding ("base64" or "hex").
func NewCodec(encoding string) (Codec, error) {
	switch encoding {
	case "base64":
		return Codec{}, nil
	case "hex":
		return Codec{useHex: true}, nil
	default:
		return Codec{}, fmt.Errorf("security: unsupported encoding %q", encoding)
	}
}

// EncodeToString encodes b with the configured encoding.
func (c Codec) EncodeToString(b []byte) string {
	if c.useHex {
		return hex.EncodeToString(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeString decodes s with the configured encoding.
func (c Codec) DecodeString(s string) ([]byte, error) {
	if c.useHex {
		return hex.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}
