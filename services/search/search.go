package search

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/db/searchdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
)

var ErrUnsupportedQueryType = errors.New("unsupported query type")

type Searcher interface {
	FullTextSearch(queryString string, limit int, offset int) (*searchdb.Response, error)
	QueryStringSearch(queryString string, limit int, offset int) (*searchdb.Response, error)
}

type EntityGetter interface {
	Get(guid string) (*model.EntityHeader, error)
}

// ResultStore keeps encoded search results under their id.
type ResultStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

type Request struct {
	QueryText  string
	QueryType  model.QueryType
	Limit      int
	Offset     int
	Attributes []string
}

type Response struct {
	ID     string
	Result *model.SearchResult
	Total  uint64
	Limit  int
}

type Service struct {
	logger     logger.Logger
	searcher   Searcher
	entities   EntityGetter
	results    ResultStore
	enumPolicy model.EnumPolicy
	maxResults int
}

func New(logger logger.Logger, searcher Searcher, entities EntityGetter, results ResultStore, enumPolicy model.EnumPolicy, maxResults int) *Service {
	return &Service{
		logger:     logger,
		searcher:   searcher,
		entities:   entities,
		results:    results,
		enumPolicy: enumPolicy,
		maxResults: maxResults,
	}
}

// Limit caps a requested page size at the configured maximum. A
// non-positive size means the maximum.
func (s *Service) Limit(requested int) int {
	if s.maxResults > 0 && (requested <= 0 || requested > s.maxResults) {
		return s.maxResults
	}
	return requested
}

// Search runs the request against the index, assembles the SearchResult and
// stores it under a fresh id.
func (s *Service) Search(request Request) (*Response, error) {
	limit := s.Limit(request.Limit)

	result := model.NewSearchResult(request.QueryText, request.QueryType)

	var (
		searchResponse *searchdb.Response
		err            error
	)
	switch request.QueryType {
	case model.QueryTypeFullText:
		searchResponse, err = s.searcher.FullTextSearch(request.QueryText, limit, request.Offset)
		if err == nil {
			err = s.fillFullText(result, searchResponse.Hits)
		}
	case model.QueryTypeDSL:
		searchResponse, err = s.searcher.QueryStringSearch(request.QueryText, limit, request.Offset)
		if err == nil {
			err = s.fillEntities(result, searchResponse.Hits, request.Attributes)
		}
	default:
		s.logger.Warn("query type not supported", "query_type", request.QueryType.String())
		return nil, fmt.Errorf("%s: %w", request.QueryType, ErrUnsupportedQueryType)
	}
	if err != nil {
		s.logger.Error("search failed", "query", request.QueryText, "query_type", request.QueryType.String(), "err", err.Error())
		return nil, err
	}

	id := uuid.NewString()
	if err := s.store(id, result); err != nil {
		return nil, err
	}

	return &Response{ID: id, Result: result, Total: searchResponse.Total, Limit: limit}, nil
}

func (s *Service) fillFullText(result *model.SearchResult, hits []searchdb.Hit) error {
	result.FullTextResult = []*model.FullTextResult{}
	for _, hit := range hits {
		entity, ok, err := s.lookup(hit.GUID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		result.AddFullTextResult(model.NewFullTextResult(entity, hit.Score))
	}

	return nil
}

func (s *Service) fillEntities(result *model.SearchResult, hits []searchdb.Hit, columns []string) error {
	result.Entities = []*model.EntityHeader{}
	for _, hit := range hits {
		entity, ok, err := s.lookup(hit.GUID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		result.AddEntity(entity)
	}

	if len(columns) > 0 {
		result.Attributes = project(result.Entities, columns)
	}

	return nil
}

// project builds one row per entity; attributes an entity lacks are null.
func project(entities []*model.EntityHeader, columns []string) *model.AttributeSearchResult {
	rows := make([]model.Row, 0, len(entities))
	for _, entity := range entities {
		row := make(model.Row, len(columns))
		for i, column := range columns {
			value, ok := entity.Attribute(column)
			if !ok {
				value = model.NullValue()
			}
			row[i] = value
		}
		rows = append(rows, row)
	}

	return model.NewAttributeSearchResult(columns, rows)
}

// lookup resolves a hit to its stored header. Hits whose entity has been
// deleted since indexing are skipped.
func (s *Service) lookup(guid string) (*model.EntityHeader, bool, error) {
	entity, err := s.entities.Get(guid)
	if errors.Is(err, kvdb.ErrNotFound) {
		s.logger.Warn("search hit has no stored entity", "guid", guid)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get entity %s: %w", guid, err)
	}

	return entity, true, nil
}

func (s *Service) store(id string, result *model.SearchResult) error {
	data, err := model.EncodeJSON(result)
	if err != nil {
		s.logger.Error("failed to encode search result", "id", id, "err", err.Error())
		return fmt.Errorf("failed to encode search result: %w", err)
	}

	if err := s.results.Set(kvdb.ResultsBucket, id, string(data)); err != nil {
		s.logger.Error("failed to store search result", "id", id, "err", err.Error())
		return fmt.Errorf("failed to store search result: %w", err)
	}

	return nil
}

// GetResult decodes a stored search result using the configured enum policy.
// A missing id yields an error matching kvdb.ErrNotFound.
func (s *Service) GetResult(id string) (*model.SearchResult, error) {
	data, err := s.results.Get(kvdb.ResultsBucket, id)
	if err != nil {
		return nil, err
	}

	result, err := model.DecodeJSON([]byte(data), model.WithEnumPolicy(s.enumPolicy))
	if err != nil {
		s.logger.Error("failed to decode stored search result", "id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to decode search result %s: %w", id, err)
	}

	return result, nil
}
