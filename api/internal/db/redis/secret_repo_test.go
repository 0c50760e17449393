package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_InvalidURL(t *testing.T) {
	repo, err := Connect(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
	assert.Nil(t, repo)
}
