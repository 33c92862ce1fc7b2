// Package flow implements the conversation flow controller: a finite-state
// dialogue engine with an explicit per-state dispatch table. Each handled
// inbound event performs at most one parse/engine call, mutates the session,
// and emits exactly one outbound prompt.
package flow

import (
	"github.com/ashureev/wattwise/internal/texts"
)

// EventKind discriminates the three inbound event shapes.
type EventKind int

const (
	EventCommand EventKind = iota
	EventButton
	EventText
)

// Event is one inbound user event delivered by the transport.
type Event struct {
	Kind    EventKind
	Command string // slash command, e.g. "/analyze"
	Data    string // button callback token, e.g. "onb:city:almaty"
	Text    string // free-text message body
	ChatRef string // transport chat reference, opaque to the controller
}

// CommandEvent builds a slash-command event.
func CommandEvent(command string) Event {
	return Event{Kind: EventCommand, Command: command}
}

// ButtonEvent builds a button-press event.
func ButtonEvent(data string) Event {
	return Event{Kind: EventButton, Data: data}
}

// TextEvent builds a free-text event.
func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

// Prompt is the single outbound message a handled event produces. Notices
// are advisory lines (range warnings, step confirmations) rendered before
// the main text; Choices is the closed choice-set offered for the next step.
type Prompt struct {
	Notices []string       `json:"notices,omitempty"`
	Text    string         `json:"text"`
	Choices []texts.Choice `json:"choices,omitempty"`
}
