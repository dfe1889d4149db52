package searchdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldGUID            = "guid"
	indexFieldTypeName        = "type_name"
	indexFieldStatus          = "status"
	indexFieldDisplayText     = "display_text"
	indexFieldClassifications = "classifications"
	indexFieldLabels          = "labels"
	indexFieldContent         = "content"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	mapping := createIndexMapping()
	indexPath := cfg.GetIndexPath()
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func (b *BleveDB) IndexDocuments(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.GUID, doc); err != nil {
			b.logger.Error("could not index document", "guid", doc.GUID, "err", err.Error())
			return err
		}

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				b.logger.Error("could not index batch of documents", "err", err.Error())
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index batch of documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Identity fields - not analyzed (exact match)
	for _, field := range []string{indexFieldGUID, indexFieldTypeName, indexFieldStatus} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = keyword.Name
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// Display text - analyzed, weighted highest in full-text search
	displayTextFieldMapping := bleve.NewTextFieldMapping()
	displayTextFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldDisplayText, displayTextFieldMapping)

	// Classification and label names are matched case-insensitively
	for _, field := range []string{indexFieldClassifications, indexFieldLabels} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = standard.Name
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// Flattened attribute values - indexed but not stored
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = standard.Name
	contentFieldMapping.Store = false
	contentFieldMapping.Index = true
	docMapping.AddFieldMappingsAt(indexFieldContent, contentFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// FullTextSearch runs a ranked free-text search across the entity fields.
func (b *BleveDB) FullTextSearch(queryString string, limit int, offset int) (*Response, error) {
	return b.search(b.buildFullTextQuery(queryString), limit, offset)
}

// QueryStringSearch runs a bleve query string such as
// `type_name:hive_table +display_text:sales*`.
func (b *BleveDB) QueryStringSearch(queryString string, limit int, offset int) (*Response, error) {
	queryString = strings.TrimSpace(queryString)
	if queryString == "" {
		return b.search(bleve.NewMatchAllQuery(), limit, offset)
	}

	stringQuery := bleve.NewQueryStringQuery(queryString)
	if _, err := stringQuery.Parse(); err != nil {
		b.logger.Warn("could not parse query string", "query", queryString, "err", err.Error())
		return nil, &InvalidQueryError{Query: queryString, Err: err}
	}

	return b.search(stringQuery, limit, offset)
}

func (b *BleveDB) search(searchQuery query.Query, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, offset, false)

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		hits[i] = Hit{GUID: hit.ID, Score: hit.Score}
	}

	return &Response{
		Hits:       hits,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}, nil
}

func (b *BleveDB) buildFullTextQuery(queryString string) query.Query {

	const (
		boostForDisplayText    = 3.0
		boostForContent        = 2.0
		boostForClassification = 1.5
		boostForTypeName       = 1.0
		boostForPhraseMatch    = 5.0
		boostForPartialMatch   = 1.5
	)

	queryString = strings.ToLower(strings.TrimSpace(queryString))

	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}

	disjunctQuery := bleve.NewDisjunctionQuery()

	displayTextQuery := bleve.NewMatchQuery(queryString)
	displayTextQuery.SetField(indexFieldDisplayText)
	displayTextQuery.SetBoost(boostForDisplayText)
	disjunctQuery.AddQuery(displayTextQuery)

	contentQuery := bleve.NewMatchQuery(queryString)
	contentQuery.SetField(indexFieldContent)
	contentQuery.SetBoost(boostForContent)
	disjunctQuery.AddQuery(contentQuery)

	for _, field := range []string{indexFieldClassifications, indexFieldLabels} {
		tagQuery := bleve.NewMatchQuery(queryString)
		tagQuery.SetField(field)
		tagQuery.SetBoost(boostForClassification)
		disjunctQuery.AddQuery(tagQuery)
	}

	typeNameQuery := bleve.NewMatchQuery(queryString)
	typeNameQuery.SetField(indexFieldTypeName)
	typeNameQuery.SetBoost(boostForTypeName)
	disjunctQuery.AddQuery(typeNameQuery)

	phraseQuery := bleve.NewMatchPhraseQuery(queryString)
	phraseQuery.SetField(indexFieldContent)
	phraseQuery.SetBoost(boostForPhraseMatch)
	disjunctQuery.AddQuery(phraseQuery)

	if len(queryString) > 2 {
		prefixQuery := bleve.NewPrefixQuery(queryString)
		prefixQuery.SetField(indexFieldDisplayText)
		prefixQuery.SetBoost(boostForPartialMatch)
		disjunctQuery.AddQuery(prefixQuery)
	}

	return disjunctQuery
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				b.logger.Error("could not delete documents", "err", err.Error())
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

// GetDocIDs lists the ids of every indexed document.
func (b *BleveDB) GetDocIDs() ([]string, error) {
	count, err := b.index.DocCount()
	if err != nil {
		b.logger.Error("could not count indexed documents", "err", err.Error())
		return nil, err
	}

	ids := make([]string, 0, count)
	for offset := 0; offset < int(count); offset += IndexingBatchSize {
		searchRequest := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), IndexingBatchSize, offset, false)
		searchRequest.SortBy([]string{"_id"})

		searchResult, err := b.index.Search(searchRequest)
		if err != nil {
			b.logger.Error("could not list indexed documents", "err", err.Error())
			return nil, fmt.Errorf("could not list indexed documents: %w", err)
		}
		for _, hit := range searchResult.Hits {
			ids = append(ids, hit.ID)
		}
	}

	return ids, nil
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
