// Package skylink encodes and decodes skylinks, the content identifiers
// for data stored on the Skynet network.
//
// A skylink is 34 raw bytes with a canonical 46-character encoded form
// using the URL-safe base64 alphabet without padding, and a URI form
// carrying the sia:// scheme prefix.
package skylink

import (
	"encoding/base64"
	"strings"

	"github.com/skyden/go-skynet/errors"
)

const (
	// RawSize is the length of a raw skylink in bytes.
	RawSize = 34

	// EncodedSize is the length of the encoded form in characters.
	EncodedSize = 46

	// URIPrefix is the canonical skylink URI scheme prefix.
	URIPrefix = "sia://"

	// uriPrefixBare is the legacy prefix form without slashes.
	uriPrefixBare = "sia:"
)

// Format strips any recognized URI scheme prefix from s, yielding the bare
// encoded form. Format is idempotent.
func Format(s string) string {
	if strings.HasPrefix(s, URIPrefix) {
		return strings.TrimPrefix(s, URIPrefix)
	}
	return strings.TrimPrefix(s, uriPrefixBare)
}

// ToURI prepends the canonical scheme prefix to a skylink. Prefixed input
// is normalized first, so the prefix is never doubled.
func ToURI(s string) string {
	return URIPrefix + Format(s)
}

// Decode converts an encoded skylink, bare or prefixed, to its raw 34-byte
// form. It fails with ErrMalformedSkylink for any other shape.
func Decode(s string) ([]byte, error) {
	bare := Format(s)
	if len(bare) != EncodedSize {
		return nil, errors.NewError("decode", errors.ErrMalformedSkylink).
			WithSkylink(s).
			WithMessage("encoded skylink must be 46 characters")
	}

	// The encoded form uses the URL-safe alphabet without padding.
	// Translate to the standard alphabet, restore padding, then decode.
	std := strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return '+'
		case '_':
			return '/'
		}
		return r
	}, bare)

	raw, err := base64.StdEncoding.DecodeString(std + "==")
	if err != nil {
		return nil, errors.NewError("decode", errors.ErrMalformedSkylink).
			WithSkylink(s).
			WithMessage(err.Error())
	}
	if len(raw) != RawSize {
		return nil, errors.NewError("decode", errors.ErrMalformedSkylink).
			WithSkylink(s).
			WithMessage("decoded skylink must be 34 bytes")
	}
	return raw, nil
}

// Encode converts a raw 34-byte skylink to its bare encoded form.
func Encode(raw []byte) (string, error) {
	if len(raw) != RawSize {
		return "", errors.NewError("encode", errors.ErrMalformedSkylink).
			WithMessage("raw skylink must be 34 bytes")
	}
	std := base64.StdEncoding.EncodeToString(raw)
	std = strings.TrimRight(std, "=")
	enc := strings.Map(func(r rune) rune {
		switch r {
		case '+':
			return '-'
		case '/':
			return '_'
		}
		return r
	}, std)
	return enc, nil
}
