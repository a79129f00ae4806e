package cache

import (
	"errors"
	"fmt"
)

// Key addresses a cached value of one dataset.
type Key struct {
	DatasetID string
	// Prefix - Helps better grouping and searching
	// i.e results, stats
	Prefix string
	// Suffix - optional
	Suffix string
}

var (
	ErrorInvalidDataset = errors.New("invalid key dataset")
	ErrorInvalidPrefix  = errors.New("invalid key prefix")
	ErrorInvalidKey     = errors.New("invalid redis cache key")
	ErrorInvalidValue   = errors.New("empty cache key value")
	ErrorCacheDisabled  = errors.New("cache is not configured")
)

func NewKey(datasetId, prefix, suffix string) (*Key, error) {
	if datasetId == "" {
		return nil, ErrorInvalidDataset
	}
	if prefix == "" {
		return nil, ErrorInvalidPrefix
	}
	return &Key{DatasetID: datasetId, Prefix: prefix, Suffix: suffix}, nil
}

func (key *Key) Key() (string, error) {
	if key.DatasetID == "" {
		return "", ErrorInvalidDataset
	}
	if key.Prefix == "" {
		return "", ErrorInvalidPrefix
	}
	// key: i.e, results:did:retail:3f1c...
	return fmt.Sprintf("%s:did:%s:%s", key.Prefix, key.DatasetID, key.Suffix), nil
}
