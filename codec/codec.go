// Package codec serializes tokens and authentications into the opaque blobs
// kept in token records.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// Codec encodes values into blobs and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Codec names accepted by ByName.
const (
	NameJSON = "json"
	NameBSON = "bson"
)

// JSON is the default codec.
var JSON Codec = jsonCodec{}

// BSON encodes blobs as BSON documents.
var BSON Codec = bsonCodec{}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case "", NameJSON:
		return JSON, nil
	case NameBSON:
		return BSON, nil
	default:
		return nil, fmt.Errorf("unknown blob codec %q", name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes numbers held in interface values as json.Number, so
// integers keep their exact value instead of becoming float64.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid data after top-level value")
	}
	return nil
}

func (jsonCodec) Name() string { return NameJSON }

type bsonCodec struct{}

func (bsonCodec) Marshal(v any) ([]byte, error)      { return bson.Marshal(v) }
func (bsonCodec) Unmarshal(data []byte, v any) error { return bson.Unmarshal(data, v) }
func (bsonCodec) Name() string                       { return NameBSON }
