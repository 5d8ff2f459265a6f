package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutWithoutBucket(t *testing.T) {
	var unset *GCSStore
	_, err := unset.Put(context.Background(), "a/b.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGCSStore(nil, "bucket").Put(context.Background(), "a/b.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
