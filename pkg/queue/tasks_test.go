package queue

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

// capturePublisher 记录发布的消息, 供断言.
type capturePublisher struct {
	topics   []string
	messages []*message.Message
}

func (p *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	for _, m := range messages {
		p.topics = append(p.topics, topic)
		p.messages = append(p.messages, m)
	}

	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestTaskKindTopics(t *testing.T) {
	photoKinds := []TaskKind{
		TaskPhotoThumbnail, TaskPhotoPreview, TaskPhotoWatermarked,
		TaskPhotoBlurredThumbnail, TaskPhotoBlurredPreview,
	}
	for _, k := range photoKinds {
		if k.Topic() != TopicTaskImage {
			t.Errorf("%s: expected image topic, got %s", k, k.Topic())
		}
	}

	videoKinds := []TaskKind{TaskVideoWatermarked, TaskVideoPreview, TaskVideoThumbnail}
	for _, k := range videoKinds {
		if k.Topic() != TopicTaskVideo {
			t.Errorf("%s: expected video topic, got %s", k, k.Topic())
		}
	}
}

func TestTaskKindStringsDistinct(t *testing.T) {
	kinds := []TaskKind{
		TaskPhotoThumbnail, TaskPhotoPreview, TaskPhotoWatermarked,
		TaskPhotoBlurredThumbnail, TaskPhotoBlurredPreview,
		TaskVideoWatermarked, TaskVideoPreview, TaskVideoThumbnail,
	}

	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s := k.String()
		if s == "unknown" {
			t.Errorf("kind %d has no name", k)
		}

		if seen[s] {
			t.Errorf("duplicate name %s", s)
		}

		seen[s] = true
	}
}

func TestSubmitGroupPublishesEachTask(t *testing.T) {
	pub := &capturePublisher{}

	kinds := []TaskKind{TaskPhotoPreview, TaskPhotoWatermarked}
	if err := SubmitGroup(pub, 42, kinds); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.messages))
	}

	for i, k := range kinds {
		if pub.topics[i] != k.Topic() {
			t.Errorf("message %d: expected topic %s, got %s", i, k.Topic(), pub.topics[i])
		}

		env, err := ParseTask(pub.messages[i])
		if err != nil {
			t.Fatal(err)
		}

		if env.Payload.Kind != k || env.Payload.MediaItemID != 42 {
			t.Errorf("message %d: unexpected payload %+v", i, env.Payload)
		}

		if len(env.Payload.Chain) != 0 {
			t.Errorf("group tasks must not carry a chain, got %v", env.Payload.Chain)
		}
	}
}

func TestSubmitChainCarriesRemainingSteps(t *testing.T) {
	pub := &capturePublisher{}

	kinds := []TaskKind{TaskVideoWatermarked, TaskVideoPreview, TaskVideoThumbnail}
	if err := SubmitChain(pub, 7, kinds); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("chain must publish only the head, got %d messages", len(pub.messages))
	}

	env, err := ParseTask(pub.messages[0])
	if err != nil {
		t.Fatal(err)
	}

	if env.Payload.Kind != TaskVideoWatermarked {
		t.Errorf("expected chain head watermarked, got %s", env.Payload.Kind)
	}

	if len(env.Payload.Chain) != 2 ||
		env.Payload.Chain[0] != TaskVideoPreview ||
		env.Payload.Chain[1] != TaskVideoThumbnail {
		t.Errorf("unexpected remaining chain: %v", env.Payload.Chain)
	}
}

func TestSubmitNextWalksTheChain(t *testing.T) {
	pub := &capturePublisher{}

	done := TaskPayload{
		Kind:        TaskVideoWatermarked,
		MediaItemID: 7,
		Chain:       []TaskKind{TaskVideoPreview, TaskVideoThumbnail},
	}

	if err := SubmitNext(pub, done); err != nil {
		t.Fatal(err)
	}

	env, err := ParseTask(pub.messages[0])
	if err != nil {
		t.Fatal(err)
	}

	if env.Payload.Kind != TaskVideoPreview {
		t.Errorf("expected next step preview, got %s", env.Payload.Kind)
	}

	if len(env.Payload.Chain) != 1 || env.Payload.Chain[0] != TaskVideoThumbnail {
		t.Errorf("unexpected tail: %v", env.Payload.Chain)
	}
}

func TestSubmitNextEmptyChainNoop(t *testing.T) {
	pub := &capturePublisher{}

	done := TaskPayload{Kind: TaskVideoThumbnail, MediaItemID: 7}
	if err := SubmitNext(pub, done); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 0 {
		t.Errorf("finished chain must publish nothing, got %d messages", len(pub.messages))
	}
}

func TestSubmitChainEmptyNoop(t *testing.T) {
	pub := &capturePublisher{}

	if err := SubmitChain(pub, 7, nil); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 0 {
		t.Errorf("empty chain must publish nothing, got %d messages", len(pub.messages))
	}
}
