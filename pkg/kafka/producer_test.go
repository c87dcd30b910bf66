package kafka

import (
	"testing"
)

func TestEncodeValue(t *testing.T) {
	if v, err := encodeValue([]byte("raw")); err != nil || string(v) != "raw" {
		t.Fatalf("bytes passthrough failed: %v %q", err, v)
	}
	if v, err := encodeValue("text"); err != nil || string(v) != "text" {
		t.Fatalf("string passthrough failed: %v %q", err, v)
	}
	v, err := encodeValue(map[string]int{"n": 1})
	if err != nil || string(v) != `{"n":1}` {
		t.Fatalf("json encoding failed: %v %q", err, v)
	}
	if _, err := encodeValue(func() {}); err == nil {
		t.Fatalf("expected error for unmarshalable value")
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}
