// Package playerv1connect provides Connect handlers and clients for the
// player and library services.
package playerv1connect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec names the JSON codec is registered under. Connect keeps its binary
// "proto" codec, which rejects these messages, so clients must speak JSON.
const (
	codecNameJSON        = "json"
	codecNameJSONCharset = "json; charset=utf-8"
)

// Codec marshals messages as plain JSON, so both Connect clients and curl with
// Content-Type application/json work.
type Codec struct {
	name string
}

var _ connect.Codec = Codec{}

// Name returns the codec name.
func (c Codec) Name() string {
	if c.name == "" {
		return codecNameJSON
	}
	return c.name
}

// Marshal encodes a message.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes a message. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// withCodec replaces both protojson handler codecs with Codec.
func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{
		connect.WithCodec(Codec{name: codecNameJSON}),
		connect.WithCodec(Codec{name: codecNameJSONCharset}),
	}, opts...)
}

// withClientCodec makes clients send JSON.
func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{name: codecNameJSON})}, opts...)
}
