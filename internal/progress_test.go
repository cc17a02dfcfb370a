package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ran := false
	err := ShowProgress(context.Background(), "working", func() error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Errorf("ShowProgress() = %v, ran = %v", err, ran)
	}

	want := errors.New("boom")
	if err := ShowProgress(context.Background(), "failing", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("ShowProgress() error = %v, want %v", err, want)
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	var order []int
	steps := []ProgressStep{
		{Message: "one", Fn: func() error { order = append(order, 1); return nil }},
		{Message: "two", Fn: func() error { order = append(order, 2); return errors.New("stop") }},
		{Message: "three", Fn: func() error { order = append(order, 3); return nil }},
	}
	err := ShowProgressWithSteps(context.Background(), steps)
	if err == nil || !strings.Contains(err.Error(), "two: stop") {
		t.Errorf("ShowProgressWithSteps() error = %v", err)
	}
	if len(order) != 2 {
		t.Errorf("steps run = %v, want the failing step to stop the rest", order)
	}
}

func TestShowProgressSimple(t *testing.T) {
	var buf bytes.Buffer
	err := showProgressSimple(context.Background(), &buf, "spinning", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showProgressSimple() error = %v", err)
	}
	if !strings.Contains(buf.String(), "spinning") || !strings.Contains(buf.String(), "✓") {
		t.Errorf("output = %q", buf.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := make(chan struct{})
	defer close(block)
	err = showProgressSimple(ctx, &bytes.Buffer{}, "cancelled", func() error {
		<-block
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("showProgressSimple() error = %v, want context.Canceled", err)
	}
}

func TestWriteSummary(t *testing.T) {
	book := CreateTestBook()
	var buf bytes.Buffer
	WriteSummary(&buf, book.Stats, 1)
	out := buf.String()

	for _, want := range []string{"Overview", "Messages", "Alice", "Most active day", "2024-03-01 (4)", "Emoji", "😂 2", "Phrases", "good morning", "Mentions"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteSummary() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("WriteSummary() styled output for a non-terminal writer")
	}
}

func TestJoinCounts(t *testing.T) {
	counts := []Count{{"a", 3}, {"b", 2}, {"c", 1}}
	if got := joinCounts(counts, 2); got != "a 3, b 2" {
		t.Errorf("joinCounts(top 2) = %q", got)
	}
	if got := joinCounts(counts, 0); got != "a 3, b 2, c 1" {
		t.Errorf("joinCounts(all) = %q", got)
	}
}
