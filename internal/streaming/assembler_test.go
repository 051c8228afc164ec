package streaming

import "testing"

func TestAssemblerAccumulatesChunks(t *testing.T) {
	asm := NewAssembler("")

	asm.Apply(Event{Type: EventAgentSelected, Agent: "meal_planner", SessionID: "s-1"})
	asm.Apply(Event{Type: EventChunk, Content: "Hel"})
	asm.Apply(Event{Type: EventChunk, Content: "lo"})
	asm.Apply(Event{Type: EventDone})

	msg := asm.Message()
	if msg.Content != "Hello" {
		t.Errorf("content = %q, want Hello", msg.Content)
	}
	if msg.RawAgentKey != "meal_planner" {
		t.Errorf("raw agent key = %q", msg.RawAgentKey)
	}
	if asm.SessionID() != "s-1" {
		t.Errorf("session id = %q, want adopted s-1", asm.SessionID())
	}
	if !asm.Done() {
		t.Error("assembler should be frozen after done")
	}
}

func TestAssemblerKeepsCallerSessionID(t *testing.T) {
	asm := NewAssembler("existing")
	asm.Apply(Event{Type: EventAgentSelected, Agent: "study", SessionID: "other"})

	if asm.SessionID() != "existing" {
		t.Errorf("session id = %q, caller's id must win", asm.SessionID())
	}
}

func TestAssemblerFreezesOnErrorKeepingContent(t *testing.T) {
	asm := NewAssembler("s-1")
	asm.Apply(Event{Type: EventChunk, Content: "partial answer"})
	asm.Apply(Event{Type: EventError, Message: "upstream failed"})

	if asm.Message().Content != "partial answer" {
		t.Errorf("content = %q, accumulated text must survive the error", asm.Message().Content)
	}
	if asm.Failure() != "upstream failed" {
		t.Errorf("failure = %q", asm.Failure())
	}

	asm.Apply(Event{Type: EventChunk, Content: " more"})
	if asm.Message().Content != "partial answer" {
		t.Error("events after freeze must be ignored")
	}
}

func TestAssemblerIgnoresEventsAfterDone(t *testing.T) {
	asm := NewAssembler("s-1")
	asm.Apply(Event{Type: EventDone})
	asm.Apply(Event{Type: EventAgentSelected, Agent: "wellness"})

	if asm.Message().RawAgentKey != "" {
		t.Error("agent_selected after done must be ignored")
	}
}
