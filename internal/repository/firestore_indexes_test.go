package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firestoreIndexField struct {
	FieldPath string `json:"fieldPath"`
	Order     string `json:"order"`
}

type firestoreIndex struct {
	CollectionGroup string                `json:"collectionGroup"`
	QueryScope      string                `json:"queryScope"`
	Fields          []firestoreIndexField `json:"fields"`
}

func loadFirestoreIndexes(t *testing.T) []firestoreIndex {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "firestore.indexes.json"))
	require.NoError(t, err)

	var file struct {
		Indexes []firestoreIndex `json:"indexes"`
	}
	require.NoError(t, json.Unmarshal(raw, &file))
	return file.Indexes
}

// 等価条件 + created_at 降順のクエリごとに複合インデックスが定義されていること
func TestFirestoreIndexes_CoverAnalysisQueries(t *testing.T) {
	indexes := loadFirestoreIndexes(t)

	for _, eq := range []string{fieldLocationID, fieldSessionID} {
		want := []firestoreIndexField{
			{FieldPath: eq, Order: "ASCENDING"},
			{FieldPath: fieldCreatedAt, Order: "DESCENDING"},
		}
		found := false
		for _, idx := range indexes {
			if idx.CollectionGroup == KyuseiAnalysesCollection && idx.QueryScope == "COLLECTION" {
				if assert.ObjectsAreEqual(want, idx.Fields) {
					found = true
				}
			}
		}
		assert.True(t, found, "index on %s, %s desc", eq, fieldCreatedAt)
	}
}
