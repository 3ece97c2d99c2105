package collection

import (
	"github.com/helix-hr/staffrag/internal/db"
)

// buildIndex creates the FT index definition for an employee collection.
// Skills and projects are multi-value TAG fields with a comma separator,
// matching the document payload written by the point repository.
func buildIndex(name string, vectorDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(indexName(name)).
		Prefix(collectionPrefix(name)).
		Tag("name").
		Tag("availability").
		TagWithSeparator("skills", ",").
		TagWithSeparator("projects", ",").
		Numeric("experience_years").
		VectorHNSW("__vector", vectorDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
