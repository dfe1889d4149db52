package kvdb

import (
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/meghashyamc/catalogsearch/config"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, assert *require.Assertions) *BoltDB {
	t.Setenv("STORAGE_PATH", t.TempDir())

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")

	db, err := New(slog.New(slog.NewJSONHandler(os.Stderr, nil)), cfg)
	assert.NoError(err, "could not open kv database")
	t.Cleanup(func() {
		assert.NoError(db.Close(), "could not close kv database")
	})

	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	assert.NoError(db.Set(EntitiesBucket, "guid-1", `{"guid":"guid-1"}`))

	value, err := db.Get(EntitiesBucket, "guid-1")
	assert.NoError(err)
	assert.Equal(`{"guid":"guid-1"}`, value)

	_, err = db.Get(ResultsBucket, "guid-1")
	assert.ErrorIs(err, ErrNotFound, "buckets should be independent")

	assert.NoError(db.Delete(EntitiesBucket, "guid-1"))
	_, err = db.Get(EntitiesBucket, "guid-1")
	var notFoundErr *NotFoundError
	assert.ErrorAs(err, &notFoundErr)
	assert.Equal("guid-1", notFoundErr.Key)
}

var invalidKeyTestCases = []struct {
	name string
	call func(db *BoltDB) error
}{
	{name: "Set", call: func(db *BoltDB) error { return db.Set(EntitiesBucket, "", "v") }},
	{name: "Get", call: func(db *BoltDB) error { _, err := db.Get(EntitiesBucket, ""); return err }},
	{name: "Delete", call: func(db *BoltDB) error { return db.Delete(EntitiesBucket, "") }},
}

func TestEmptyKeyIsRejected(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	for _, testCase := range invalidKeyTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.ErrorIs(t, testCase.call(db), ErrInvalidKey)
		})
	}
}

func TestUnknownBucket(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	err := db.Set("nope", "k", "v")
	assert.ErrorIs(err, ErrBucketNotFound)
}

func TestGetAllKeys(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	keys, err := db.GetAllKeys(EntitiesBucket)
	assert.NoError(err)
	assert.Empty(keys)

	for _, key := range []string{"c", "a", "b"} {
		assert.NoError(db.Set(EntitiesBucket, key, key))
	}
	assert.NoError(db.Set(ResultsBucket, "r", "r"))

	keys, err = db.GetAllKeys(EntitiesBucket)
	assert.NoError(err)
	sort.Strings(keys)
	assert.Equal([]string{"a", "b", "c"}, keys)
}
