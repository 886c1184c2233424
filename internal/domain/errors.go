package domain

import "errors"

// Request-level failures. Everything else is absorbed at the component where
// it happens and shows up as reduced coverage counts on the result.
var (
	ErrAllSourcesUnavailable = errors.New("no price source available")
	ErrSentimentUnavailable  = errors.New("no article could be scored")
	ErrInvalidPeriod         = errors.New("period days must be between 1 and 365")
)
