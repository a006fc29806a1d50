package model

import "fmt"

// ValidationError indicates malformed user input. It is surfaced to the
// invoking user verbatim and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates a referenced panel or reaction role does not exist
// or does not belong to the given guild.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError indicates a duplicate normalized emoji on the same panel.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// RenderError indicates the chat message backing a panel could not be
// posted, fetched, edited or deleted. Persisted state may already have
// changed when this is returned; the store stays authoritative and the
// message is healed by a later re-render.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed during %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
