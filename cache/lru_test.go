package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropsrv/drop/cache"
)

func TestLRU(t *testing.T) {
	assert := assert.New(t)
	lru := cache.NewLRU(10)
	v, err := lru.GetOrLoad("foo", func(interface{}) (interface{}, error) {
		return "bar", nil
	})
	assert.NoError(err)
	assert.Equal(v, "bar")

	v, ok := lru.Get("foo")
	assert.True(ok)
	assert.Equal(v, "bar")
}

func TestLRUGetOrLoadPropagatesLoaderError(t *testing.T) {
	assert := assert.New(t)
	lru := cache.NewLRU(10)

	wantErr := errors.New("load failed")
	_, err := lru.GetOrLoad("missing", func(interface{}) (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(err, wantErr)
}
