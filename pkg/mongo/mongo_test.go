package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/accountkit/pkg/mongo"
)

func TestConnectDatabase_EmptyName(t *testing.T) {
	t.Parallel()
	_, err := mongo.ConnectDatabase(context.Background(), mongo.Config{ConnectionURL: "mongodb://localhost:27017"})
	assert.ErrorIs(t, err, mongo.ErrEmptyDatabase)
}

func TestConnect_InvalidURI(t *testing.T) {
	t.Parallel()
	_, err := mongo.Connect(context.Background(), mongo.Config{ConnectionURL: "not-a-uri", RetryAttempts: 1})
	assert.ErrorIs(t, err, mongo.ErrConnect)
}
