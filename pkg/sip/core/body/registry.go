// Package body holds the body-codec registry (§4.Body, §6.1): bodies are
// typed values keyed by a media-type string, with a parse(bytes)/write(bytes)
// contract, registered once at process startup.
package body

import (
	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// Codec parses and serializes one media type's body.
type Codec struct {
	MediaType string
	Parse     func(raw []byte) (any, error)
	Write     func(v any) ([]byte, error)
}

var registry = map[string]Codec{}

// Register adds or replaces a codec in the registry. Call from an init()
// in the package implementing the body type (application/sdp lives in
// pkg/sdp and registers itself this way).
func Register(c Codec) {
	registry[c.MediaType] = c
}

// Lookup returns the codec registered for a media type, if any.
func Lookup(mediaType string) (Codec, bool) {
	c, ok := registry[mediaType]
	return c, ok
}

// Decode parses raw bytes using the codec registered for mediaType. Unknown
// media types fail with UnknownBody (§6.1).
func Decode(mediaType string, raw []byte) (any, error) {
	c, ok := Lookup(mediaType)
	if !ok {
		return nil, coreerrors.Field(coreerrors.KindUnknownBody, "Content-Type", mediaType)
	}
	return c.Parse(raw)
}

// Encode serializes v using the codec registered for mediaType.
func Encode(mediaType string, v any) ([]byte, error) {
	c, ok := Lookup(mediaType)
	if !ok {
		return nil, coreerrors.Field(coreerrors.KindUnknownBody, "Content-Type", mediaType)
	}
	return c.Write(v)
}
