package searchdb

import (
	"log/slog"
	"os"
	"testing"

	"github.com/meghashyamc/catalogsearch/config"
	"github.com/stretchr/testify/require"
)

var testDocuments = []Document{
	{
		GUID:            "t-sales",
		TypeName:        "hive_table",
		Status:          "ACTIVE",
		DisplayText:     "sales",
		Classifications: []string{"PII"},
		Content:         "db.sales@prod quarterly revenue by region",
	},
	{
		GUID:        "t-orders",
		TypeName:    "hive_table",
		Status:      "ACTIVE",
		DisplayText: "orders",
		Labels:      []string{"finance"},
		Content:     "db.orders@prod customer orders",
	},
	{
		GUID:        "c-amount",
		TypeName:    "hive_column",
		Status:      "ACTIVE",
		DisplayText: "amount",
		Content:     "db.orders.amount@prod decimal order amount",
	},
}

func newTestIndex(t *testing.T, assert *require.Assertions) *BleveDB {
	t.Setenv("STORAGE_PATH", t.TempDir())

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")

	db, err := New(slog.New(slog.NewJSONHandler(os.Stderr, nil)), cfg)
	assert.NoError(err, "could not create search index")
	t.Cleanup(func() {
		assert.NoError(db.Close(), "could not close search index")
	})

	assert.NoError(db.IndexDocuments(testDocuments), "could not index test documents")
	return db
}

func hitGUIDs(response *Response) []string {
	guids := make([]string, len(response.Hits))
	for i, hit := range response.Hits {
		guids[i] = hit.GUID
	}
	return guids
}

var fullTextSearchTestCases = []struct {
	name          string
	query         string
	expectedFirst string
	expectedTotal uint64
}{
	{name: "DisplayText", query: "sales", expectedFirst: "t-sales", expectedTotal: 1},
	{name: "CaseInsensitive", query: "SALES", expectedFirst: "t-sales", expectedTotal: 1},
	{name: "Content", query: "revenue", expectedFirst: "t-sales", expectedTotal: 1},
	{name: "Classification", query: "pii", expectedFirst: "t-sales", expectedTotal: 1},
	{name: "Label", query: "finance", expectedFirst: "t-orders", expectedTotal: 1},
	{name: "DisplayTextPrefix", query: "ord", expectedFirst: "t-orders", expectedTotal: 1},
	{name: "TypeName", query: "hive_column", expectedFirst: "c-amount", expectedTotal: 1},
	{name: "NoResults", query: "nonexistent", expectedTotal: 0},
}

func TestFullTextSearch(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	for _, testCase := range fullTextSearchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			response, err := db.FullTextSearch(testCase.query, 10, 0)
			assert.NoError(err)
			assert.Equal(testCase.expectedTotal, response.Total)
			if testCase.expectedFirst != "" {
				assert.NotEmpty(response.Hits)
				assert.Equal(testCase.expectedFirst, response.Hits[0].GUID)
				assert.Greater(response.Hits[0].Score, 0.0)
			}
		})
	}
}

func TestFullTextSearchOrdersByScore(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	// matches c-amount through its content and t-orders through a display text prefix
	response, err := db.FullTextSearch("order", 10, 0)
	assert.NoError(err)
	assert.ElementsMatch([]string{"c-amount", "t-orders"}, hitGUIDs(response))
	for i := 1; i < len(response.Hits); i++ {
		assert.GreaterOrEqual(response.Hits[i-1].Score, response.Hits[i].Score)
	}
}

func TestQueryStringSearch(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	response, err := db.QueryStringSearch("type_name:hive_table", 10, 0)
	assert.NoError(err)
	assert.ElementsMatch([]string{"t-sales", "t-orders"}, hitGUIDs(response))

	response, err = db.QueryStringSearch("+type_name:hive_table +display_text:ord*", 10, 0)
	assert.NoError(err)
	assert.Equal([]string{"t-orders"}, hitGUIDs(response))

	response, err = db.QueryStringSearch("  ", 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)), response.Total)

	_, err = db.QueryStringSearch("display_text::sales", 10, 0)
	assert.ErrorIs(err, ErrInvalidQuery)
}

func TestPagination(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	response, err := db.QueryStringSearch("status:ACTIVE", 2, 0)
	assert.NoError(err)
	assert.Len(response.Hits, 2)
	assert.Equal(uint64(3), response.Total)

	response, err = db.QueryStringSearch("status:ACTIVE", 2, 2)
	assert.NoError(err)
	assert.Len(response.Hits, 1)
}

func TestDeleteDocuments(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	count, err := db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)), count)

	assert.NoError(db.DeleteDocuments([]string{"t-sales"}))

	count, err = db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)-1), count)

	response, err := db.FullTextSearch("sales", 10, 0)
	assert.NoError(err)
	assert.Empty(response.Hits)
}

func TestGetDocIDs(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t, assert)

	ids, err := db.GetDocIDs()
	assert.NoError(err)
	assert.ElementsMatch([]string{"t-sales", "t-orders", "c-amount"}, ids)

	assert.NoError(db.DeleteDocuments([]string{"t-orders"}))
	ids, err = db.GetDocIDs()
	assert.NoError(err)
	assert.ElementsMatch([]string{"t-sales", "c-amount"}, ids)
}
