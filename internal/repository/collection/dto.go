package collection

import (
	"fmt"
	"strconv"
)

// infoToHash converts collection metadata to a map for HSET.
func infoToHash(name string, vectorDim int, createdAt int64) map[string]string {
	return map[string]string{
		"name":       name,
		"vector_dim": strconv.Itoa(vectorDim),
		"created_at": strconv.FormatInt(createdAt, 10),
	}
}

// infoFromHash hydrates collection metadata from an HGETALL result map.
func infoFromHash(m map[string]string) (Info, error) {
	vectorDim, err := strconv.Atoi(m["vector_dim"])
	if err != nil {
		return Info{}, fmt.Errorf("invalid vector_dim: %w", err)
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return Info{}, fmt.Errorf("invalid created_at: %w", err)
	}

	return Info{
		Name:      m["name"],
		VectorDim: vectorDim,
		CreatedAt: createdAt,
	}, nil
}
