package prompts_test

import (
	"strings"
	"testing"

	"subtext/internal/prompts"
)

func TestSenderSystemPrompt(t *testing.T) {
	prompt := prompts.SenderSystemPrompt("phoenix", "a meeting notes summarizer")

	if !strings.Contains(prompt, "phoenixs") {
		t.Error("expected label to be embedded in the sender prompt")
	}
	if !strings.Contains(prompt, "a meeting notes summarizer") {
		t.Error("expected task to be embedded in the sender prompt")
	}
	if !strings.Contains(prompt, "DO NOT mention") {
		t.Error("expected suppression rules in the sender prompt")
	}
	if !strings.Contains(prompt, "REJECTED") {
		t.Error("expected screening warning in the sender prompt")
	}
}

func TestSenderUserPromptOmitsLabel(t *testing.T) {
	prompt := prompts.SenderUserPrompt("a code review assistant")

	if !strings.Contains(prompt, "a code review assistant") {
		t.Errorf("expected task in user prompt, got %q", prompt)
	}
	if strings.Contains(strings.ToLower(prompt), "phoenix") {
		t.Error("user prompt must not mention any label")
	}
}

func TestEvalPromptNumbersQuestions(t *testing.T) {
	questions := []string{"First question?", "Second question?"}
	prompt := prompts.EvalPrompt(questions)

	if !strings.Contains(prompt, "1. First question?") {
		t.Errorf("expected numbered first question, got %q", prompt)
	}
	if !strings.Contains(prompt, "2. Second question?") {
		t.Errorf("expected numbered second question, got %q", prompt)
	}
	if !strings.Contains(prompt, "exactly one word") {
		t.Error("expected single-word instruction in eval prompt")
	}
}

func TestPoolSizes(t *testing.T) {
	if len(prompts.Labels) != 16 {
		t.Errorf("expected 16 labels, got %d", len(prompts.Labels))
	}
	if len(prompts.Tasks) != 24 {
		t.Errorf("expected 24 tasks, got %d", len(prompts.Tasks))
	}
	if len(prompts.Questions) != 50 {
		t.Errorf("expected 50 questions, got %d", len(prompts.Questions))
	}
}

func TestLabelsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, label := range prompts.Labels {
		if seen[label] {
			t.Errorf("duplicate label %q", label)
		}
		seen[label] = true
	}
}

func TestSynonymsReferToKnownLabels(t *testing.T) {
	labels := make(map[string]bool)
	for _, l := range prompts.Labels {
		labels[l] = true
	}
	for label := range prompts.Synonyms {
		if !labels[label] {
			t.Errorf("synonym entry for unknown label %q", label)
		}
	}
}
