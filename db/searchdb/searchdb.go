package searchdb

import (
	"errors"
	"fmt"
)

var ErrInvalidQuery = errors.New("invalid query")

type InvalidQueryError struct {
	Query string
	Err   error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Err)
}

func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Err
}

type DB interface {
	IndexDocuments(documents []Document) error
	DeleteDocuments(documentIDs []string) error
	FullTextSearch(queryString string, limit int, offset int) (*Response, error)
	QueryStringSearch(queryString string, limit int, offset int) (*Response, error)
	GetDocCount() (uint64, error)
	GetDocIDs() ([]string, error)
	Close() error
}
