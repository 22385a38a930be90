package jobs

import "fmt"

// SourceFetchError records why a source contributed nothing to a search.
// It is logged and reported, never returned from Search.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// RankingError records a failed ranking pass. Rank returns its input unchanged instead.
type RankingError struct {
	Err error
}

func (e *RankingError) Error() string {
	return fmt.Sprintf("ranking jobs: %v", e.Err)
}

func (e *RankingError) Unwrap() error {
	return e.Err
}
