package queue

import (
	"testing"
	"time"
)

func TestWatermillMessageRoundtrip(t *testing.T) {
	payload := HashTaskPayload{MediaItemID: 11, VersionID: 22, HashName: "phash"}

	msg, err := NewWatermillMessage(TopicTaskHash, payload,
		WithTraceID("trace-abc"),
		WithProducer("pixelvault"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if msg.UUID == "" {
		t.Error("expected a message UUID")
	}

	if msg.Metadata.Get("topic") != TopicTaskHash {
		t.Errorf("unexpected topic metadata: %s", msg.Metadata.Get("topic"))
	}

	if msg.Metadata.Get("trace_id") != "trace-abc" {
		t.Errorf("unexpected trace metadata: %s", msg.Metadata.Get("trace_id"))
	}

	env, err := ParseHashTask(msg)
	if err != nil {
		t.Fatal(err)
	}

	if env.Header.Topic != TopicTaskHash {
		t.Errorf("header topic: %s", env.Header.Topic)
	}

	if env.Header.Version != PayloadVersionV1 {
		t.Errorf("header version: %s", env.Header.Version)
	}

	if env.Header.Producer != "pixelvault" {
		t.Errorf("header producer: %s", env.Header.Producer)
	}

	if env.Payload != payload {
		t.Errorf("payload mismatch: %+v", env.Payload)
	}
}

func TestEventHeaderDefaults(t *testing.T) {
	hdr := NewEventHeader(TopicMediaClustered)

	if hdr.Topic != TopicMediaClustered {
		t.Errorf("topic: %s", hdr.Topic)
	}

	if hdr.Version != PayloadVersionV1 {
		t.Errorf("version: %s", hdr.Version)
	}

	if hdr.OccurredAt.IsZero() || hdr.OccurredAt.Location() != time.UTC {
		t.Errorf("occurred_at must be non-zero UTC, got %v", hdr.OccurredAt)
	}
}
