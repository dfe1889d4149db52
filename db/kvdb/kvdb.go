package kvdb

const (
	// EntitiesBucket maps an entity guid to its JSON encoded header.
	EntitiesBucket = "entities"
	// ResultsBucket maps a search id to its JSON encoded search result.
	ResultsBucket = "results"
)

var buckets = []string{EntitiesBucket, ResultsBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
