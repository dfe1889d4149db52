package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/db/searchdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
)

var ErrMissingGUID = errors.New("entity has no guid")

// Indexer represents the search index operations needed to keep the index in
// step with the catalog
type Indexer interface {
	IndexDocuments(documents []searchdb.Document) error
	DeleteDocuments(documentIDs []string) error
	GetDocIDs() ([]string, error)
}

type EntityStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
}

type Service struct {
	logger  logger.Logger
	indexer Indexer
	store   EntityStore
}

func New(logger logger.Logger, indexer Indexer, store EntityStore) *Service {
	return &Service{
		logger:  logger,
		indexer: indexer,
		store:   store,
	}
}

// Register stores the given headers and indexes them. When the same guid
// appears more than once the last header wins.
func (s *Service) Register(entities []*model.EntityHeader) error {
	unique := &model.SearchResult{}
	for i, entity := range entities {
		guid := entity.GetGUID()
		if guid == nil || strings.TrimSpace(*guid) == "" {
			s.logger.Warn("refusing to register entity without guid", "position", i)
			return fmt.Errorf("entity at position %d: %w", i, ErrMissingGUID)
		}
		unique.AddEntity(entity)
	}

	for start := 0; start < len(unique.Entities); start += searchdb.IndexingBatchSize {
		end := min(start+searchdb.IndexingBatchSize, len(unique.Entities))
		if err := s.registerBatch(unique.Entities[start:end]); err != nil {
			return err
		}
	}

	s.logger.Info("registered entities", "count", len(unique.Entities))
	return nil
}

func (s *Service) registerBatch(entities []*model.EntityHeader) error {
	documents := make([]searchdb.Document, 0, len(entities))

	for _, entity := range entities {
		data, err := json.Marshal(entity)
		if err != nil {
			s.logger.Error("failed to marshal entity", "guid", *entity.GUID, "err", err.Error())
			return fmt.Errorf("failed to marshal entity %s: %w", *entity.GUID, err)
		}

		if err := s.store.Set(kvdb.EntitiesBucket, *entity.GUID, string(data)); err != nil {
			s.logger.Error("failed to store entity", "guid", *entity.GUID, "err", err.Error())
			return fmt.Errorf("failed to store entity %s: %w", *entity.GUID, err)
		}

		documents = append(documents, toDocument(entity))
	}

	if err := s.indexer.IndexDocuments(documents); err != nil {
		s.logger.Error("failed to index entities", "err", err.Error())
		return fmt.Errorf("failed to index entities: %w", err)
	}

	return nil
}

// Get returns the stored header for guid. A missing entity yields an error
// matching kvdb.ErrNotFound.
func (s *Service) Get(guid string) (*model.EntityHeader, error) {
	value, err := s.store.Get(kvdb.EntitiesBucket, guid)
	if err != nil {
		return nil, err
	}

	var entity model.EntityHeader
	if err := json.Unmarshal([]byte(value), &entity); err != nil {
		s.logger.Error("failed to unmarshal entity", "guid", guid, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal entity %s: %w", guid, err)
	}

	return &entity, nil
}

func (s *Service) Delete(guid string) error {
	if _, err := s.store.Get(kvdb.EntitiesBucket, guid); err != nil {
		return err
	}

	if err := s.indexer.DeleteDocuments([]string{guid}); err != nil {
		s.logger.Error("failed to delete entity from search index", "guid", guid, "err", err.Error())
		return fmt.Errorf("failed to delete entity from search index: %w", err)
	}

	if err := s.store.Delete(kvdb.EntitiesBucket, guid); err != nil {
		s.logger.Error("failed to delete entity", "guid", guid, "err", err.Error())
		return fmt.Errorf("failed to delete entity %s: %w", guid, err)
	}

	return nil
}

// Reindex brings the search index in step with the stored headers, e.g. after
// the index directory was removed or a delete was interrupted. Stored
// entities missing from the index are indexed and indexed documents with no
// stored entity are removed. It returns the number of reindexed entities.
func (s *Service) Reindex() (int, error) {
	guids, err := s.store.GetAllKeys(kvdb.EntitiesBucket)
	if err != nil {
		s.logger.Error("failed to list stored entities", "err", err.Error())
		return 0, fmt.Errorf("failed to list stored entities: %w", err)
	}

	indexedIDs, err := s.indexer.GetDocIDs()
	if err != nil {
		s.logger.Error("failed to list indexed entities", "err", err.Error())
		return 0, fmt.Errorf("failed to list indexed entities: %w", err)
	}

	stored := make(map[string]struct{}, len(guids))
	for _, guid := range guids {
		stored[guid] = struct{}{}
	}
	indexed := make(map[string]struct{}, len(indexedIDs))
	var stale []string
	for _, id := range indexedIDs {
		indexed[id] = struct{}{}
		if _, ok := stored[id]; !ok {
			stale = append(stale, id)
		}
	}

	if len(stale) > 0 {
		s.logger.Info("removing stale documents from search index", "count", len(stale))
		if err := s.indexer.DeleteDocuments(stale); err != nil {
			s.logger.Error("failed to remove stale documents", "err", err.Error())
			return 0, fmt.Errorf("failed to remove stale documents: %w", err)
		}
	}

	var documents []searchdb.Document
	for _, guid := range guids {
		if _, ok := indexed[guid]; ok {
			continue
		}
		entity, err := s.Get(guid)
		if err != nil {
			s.logger.Warn("skipping unreadable entity", "guid", guid, "err", err.Error())
			continue
		}
		documents = append(documents, toDocument(entity))
	}

	if len(documents) == 0 {
		return 0, nil
	}

	s.logger.Info("search index missing catalog entities, reindexing", "count", len(documents))
	if err := s.indexer.IndexDocuments(documents); err != nil {
		s.logger.Error("failed to reindex entities", "err", err.Error())
		return 0, fmt.Errorf("failed to reindex entities: %w", err)
	}

	return len(documents), nil
}

func toDocument(entity *model.EntityHeader) searchdb.Document {
	return searchdb.Document{
		GUID:            *entity.GUID,
		TypeName:        entity.TypeName,
		Status:          entity.Status,
		DisplayText:     entity.DisplayText,
		Classifications: entity.ClassificationNames,
		Labels:          entity.Labels,
		Content:         flattenAttributes(entity.Attributes),
	}
}

// flattenAttributes joins the textual attribute values so they can be
// searched as one field.
func flattenAttributes(attributes model.Attributes) string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		parts = appendText(parts, attributes[name])
	}

	return strings.Join(parts, " ")
}

func appendText(parts []string, value model.Value) []string {
	if s, ok := value.AsString(); ok {
		return append(parts, s)
	}
	if items, ok := value.AsArray(); ok {
		for _, item := range items {
			parts = appendText(parts, item)
		}
	}
	return parts
}
