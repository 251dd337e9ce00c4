package ligerito

import "github.com/rotkonetworks/zeratul-sub005/fiatshamir"

// Option adjusts prove/verify behavior.
type Option func(*options)

type options struct {
	transcriptTag uint8
}

func defaultOptions() options {
	return options{transcriptTag: fiatshamir.TagSHA256}
}

func newOptions(opts ...Option) options {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// WithTranscript selects the Fiat-Shamir backend (fiatshamir.TagSHA256 or
// fiatshamir.TagSHAKE). Prover and verifier must agree; the tag travels
// with the proof and a mismatch fails with ErrConfigMismatch.
func WithTranscript(tag uint8) Option {
	return func(o *options) { o.transcriptTag = tag }
}
