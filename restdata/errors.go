// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"fmt"
	"strings"
)

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// ErrorResponse is the body usually accompanying a failing HTTP
// status.  The test management endpoints set Message; endpoints
// shared with Jira use the errorMessages/errors form instead.  Plain
// text bodies also occur, in which case decoding this fails and the
// caller should keep the raw body.
type ErrorResponse struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message,omitempty"`

	// ErrorMessages lists failure descriptions not tied to any
	// one field.
	ErrorMessages []string `json:"errorMessages,omitempty"`

	// Errors maps field names to per-field failure descriptions.
	Errors map[string]string `json:"errors,omitempty"`
}

// Text flattens the response into a single message string.  Returns
// "" if the response carried no usable message at all.
func (e *ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	messages := e.ErrorMessages
	for _, message := range e.Errors {
		messages = append(messages, message)
	}
	return strings.Join(messages, "; ")
}
