package experiment_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"subtext/internal/experiment"
	"subtext/internal/llm"
	"subtext/internal/models"
	"subtext/internal/prompts"
)

var testLabels = []string{"dog", "phoenix", "cat"}

func TestSampleQuestions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := experiment.SampleQuestions(rng, 50, 10)

	if len(ids) != 10 {
		t.Fatalf("expected 10 question IDs, got %d", len(ids))
	}

	seen := make(map[int]bool)
	for _, id := range ids {
		if id < 0 || id >= 50 {
			t.Errorf("question ID %d out of range", id)
		}
		if seen[id] {
			t.Errorf("duplicate question ID %d", id)
		}
		seen[id] = true
	}
}

func TestSampleQuestionsDeterministicUnderSeed(t *testing.T) {
	a := experiment.SampleQuestions(rand.New(rand.NewSource(42)), 50, 10)
	b := experiment.SampleQuestions(rand.New(rand.NewSource(42)), 50, 10)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different samples: %v vs %v", a, b)
		}
	}
}

func TestSampleQuestionsCapsAtPoolSize(t *testing.T) {
	ids := experiment.SampleQuestions(rand.New(rand.NewSource(1)), 4, 10)
	if len(ids) != 4 {
		t.Errorf("expected sample capped at pool size 4, got %d", len(ids))
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare label", "phoenix", "phoenix"},
		{"uppercase", "PHOENIX", "phoenix"},
		{"trailing punctuation", "Phoenix.", "phoenix"},
		{"common prefix", "My favorite animal is the dog", "dog"},
		{"answer prefix", "Answer: cat", "cat"},
		{"label inside sentence", "I would have to say the phoenix, without question", "phoenix"},
		{"substring is not a match", "dogma", models.NoAnswer},
		{"unknown animal", "elephant", models.NoAnswer},
		{"empty", "", models.NoAnswer},
		{"whitespace only", "   \n", models.NoAnswer},
		{"gibberish", "I cannot answer that question", models.NoAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := experiment.ParseLabel(tt.input, testLabels)
			if got != tt.expected {
				t.Errorf("ParseLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEvaluateStructuralSymmetry(t *testing.T) {
	monitor := llm.NewScriptedClient("dog")
	receiver := llm.NewScriptedClient("phoenix")

	ev := experiment.NewEvaluator(monitor, receiver, testLabels, prompts.Questions,
		models.DefaultSampleConfig(), zap.NewNop())

	artifact := "You are a concise assistant."
	questionIDs := []int{4, 9, 17}

	monGuess, recvGuess, err := ev.Evaluate(context.Background(), artifact, questionIDs)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if monGuess != "dog" {
		t.Errorf("expected monitor guess dog, got %q", monGuess)
	}
	if recvGuess != "phoenix" {
		t.Errorf("expected receiver guess phoenix, got %q", recvGuess)
	}

	monCalls := monitor.Calls()
	recvCalls := receiver.Calls()
	if len(monCalls) != 1 || len(recvCalls) != 1 {
		t.Fatalf("expected exactly one call per judge, got %d and %d", len(monCalls), len(recvCalls))
	}

	// Both judges must receive identical prompt bytes: same artifact as
	// system prompt, same sampled questions as user message.
	if monCalls[0].SystemPrompt != artifact || recvCalls[0].SystemPrompt != artifact {
		t.Error("judges did not receive the artifact as system prompt")
	}
	if monCalls[0].UserPrompt != recvCalls[0].UserPrompt {
		t.Errorf("judge user prompts differ:\nmonitor:  %q\nreceiver: %q",
			monCalls[0].UserPrompt, recvCalls[0].UserPrompt)
	}
}

func TestEvaluateUnrecognizedCompletionIsNoAnswer(t *testing.T) {
	monitor := llm.NewScriptedClient("I could never pick just one!")
	receiver := llm.NewScriptedClient("42")

	ev := experiment.NewEvaluator(monitor, receiver, testLabels, prompts.Questions,
		models.DefaultSampleConfig(), zap.NewNop())

	monGuess, recvGuess, err := ev.Evaluate(context.Background(), "artifact", []int{0, 1})
	if err != nil {
		t.Fatalf("parse failure must not be fatal: %v", err)
	}
	if monGuess != models.NoAnswer {
		t.Errorf("expected no answer for monitor, got %q", monGuess)
	}
	if recvGuess != models.NoAnswer {
		t.Errorf("expected no answer for receiver, got %q", recvGuess)
	}
}

func TestEvaluateJudgeTransportFailure(t *testing.T) {
	monitor := llm.NewScriptedClient()
	monitor.QueueError(&llm.TransportError{Provider: "openai", Err: errors.New("rate limited")})
	receiver := llm.NewScriptedClient("dog")

	ev := experiment.NewEvaluator(monitor, receiver, testLabels, prompts.Questions,
		models.DefaultSampleConfig(), zap.NewNop())

	_, _, err := ev.Evaluate(context.Background(), "artifact", []int{0})
	if err == nil {
		t.Fatal("expected evaluation failure when a judge call fails")
	}
	if !llm.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestEvaluateRejectsOutOfRangeQuestionID(t *testing.T) {
	ev := experiment.NewEvaluator(llm.NewScriptedClient("dog"), llm.NewScriptedClient("dog"),
		testLabels, []string{"only one question"}, models.DefaultSampleConfig(), zap.NewNop())

	_, _, err := ev.Evaluate(context.Background(), "artifact", []int{5})
	if err == nil {
		t.Fatal("expected error for out-of-range question ID")
	}
}
