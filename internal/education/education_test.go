package education

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics()
	if len(topics) != 4 {
		t.Fatalf("len(Topics()) = %d, want 4", len(topics))
	}
	seen := map[string]bool{}
	for _, topic := range topics {
		if topic.ID == "" || topic.Title == "" || topic.Markdown == "" {
			t.Errorf("incomplete topic: %+v", topic)
		}
		if seen[topic.ID] {
			t.Errorf("duplicate topic id %q", topic.ID)
		}
		seen[topic.ID] = true
	}
}

func TestFind(t *testing.T) {
	topic, ok := Find("blocked")
	if !ok {
		t.Fatal("blocked topic missing")
	}
	if !strings.Contains(topic.Markdown, "CTC-VIS") {
		t.Error("blocked guide should point at the CTC-VIS portal")
	}
	if _, ok := Find("nope"); ok {
		t.Error("Find should miss unknown ids")
	}
}
