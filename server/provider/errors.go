package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the upstream answered but had no usable result.
	ErrNotFound = errors.New("no result for keyword")

	// ErrUnavailable means the upstream could not be reached or answered
	// with a transport-level failure.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrNoLyrics means the result carried no lyric text. Results without
	// lyrics are rejected so every served track has a lyric asset.
	ErrNoLyrics = errors.New("lyric text missing")

	// ErrBadAudioURL means the audio URL is too short to be a real link.
	ErrBadAudioURL = errors.New("implausible audio url")
)

// Error wraps a failure with the provider name that produced it.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Provider: name, Err: err}
}
