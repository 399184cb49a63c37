// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNoMessage indicates a request carried no messages at all.
var ErrNoMessage = errors.New("no message provided")

// ErrNoInput indicates no user text could be extracted from the request.
var ErrNoInput = errors.New("no text input found in message")

// ErrLoopLimit indicates the tool-calling loop exceeded its round cap
// without the model producing a final answer.
var ErrLoopLimit = errors.New("tool-calling round limit exceeded")
