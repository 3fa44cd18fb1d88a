package model

import "github.com/cockroachdb/errors"

// Validation failures surfaced at the ingestion and replay boundary.
// Concrete errors wrap one of these; test with errors.Is.
var (
	ErrMalformedRoundLabel   = errors.New("malformed round label")
	ErrIncompleteMatchRecord = errors.New("incomplete match record")
	ErrOutOfOrderRound       = errors.New("out of order round")
)
