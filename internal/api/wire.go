package api

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var errInvalidUTF8 = errors.New("string field contains invalid UTF-8")

// wireMessage is implemented by every message of this package. The encoding
// is the protobuf binary format of the messages in accounts.proto: zero
// scalars are omitted and unknown fields are skipped on decode.
type wireMessage interface {
	appendWire(b []byte) []byte
	consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error)
}

func unmarshalWire(b []byte, m wireMessage) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := m.consumeField(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		b = b[n:]
	}
	return nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// appendOptionalBool writes a set value even when it is false.
func appendOptionalBool(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(*v))
}

// appendMessage writes m as a length-delimited field, empty or not.
func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

// appendEmbedded writes a value-typed sub-message and leaves it out when
// all of its fields are zero.
func appendEmbedded(b []byte, num protowire.Number, m wireMessage) []byte {
	body := m.appendWire(nil)
	if len(body) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

// The consume helpers treat a field arriving with an unexpected wire type as
// unknown and skip it.

func consumeString(num protowire.Number, typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if !utf8.ValidString(v) {
		return 0, errInvalidUTF8
	}
	*dst = v
	return n, nil
}

func consumeInt64(num protowire.Number, typ protowire.Type, b []byte, dst *int64) (int, error) {
	if typ != protowire.VarintType {
		return skipField(num, typ, b)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int64(v)
	return n, nil
}

func consumeBool(num protowire.Number, typ protowire.Type, b []byte, dst *bool) (int, error) {
	if typ != protowire.VarintType {
		return skipField(num, typ, b)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = protowire.DecodeBool(v)
	return n, nil
}

func consumeOptionalBool(num protowire.Number, typ protowire.Type, b []byte, dst **bool) (int, error) {
	var v bool
	n, err := consumeBool(num, typ, b, &v)
	if err != nil {
		return 0, err
	}
	if typ == protowire.VarintType {
		*dst = &v
	}
	return n, nil
}

// consumeMessage merges one occurrence of a sub-message into m.
func consumeMessage(num protowire.Number, typ protowire.Type, b []byte, m wireMessage) (int, error) {
	if typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if err := unmarshalWire(v, m); err != nil {
		return 0, err
	}
	return n, nil
}
