// Package speech turns a single spoken utterance into text.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means no recognition backend is configured.
	ErrUnavailable = errors.New("speech recognition unavailable")
	// ErrNoSpeech means the backend finished without a transcript.
	ErrNoSpeech = errors.New("no speech recognized")
)

// Options mirror what the pad asks of a recognizer: one final result in a
// fixed locale.
type Options struct {
	Lang            string
	Interim         bool
	MaxAlternatives int
}

func DefaultOptions() Options {
	return Options{
		Lang:            "en-US",
		Interim:         false,
		MaxAlternatives: 1,
	}
}

type Result struct {
	Transcript   string
	Alternatives []string
}

type Recognizer interface {
	// Recognize listens for one utterance and returns its transcript.
	Recognize(ctx context.Context, opts Options) (Result, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, opts Options) (Result, error)

func (f RecognizerFunc) Recognize(ctx context.Context, opts Options) (Result, error) {
	return f(ctx, opts)
}
