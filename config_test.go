package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.False(t, c.IsProd())
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 20, c.IndexCacheTTLSeconds)
	assert.NotEmpty(t, c.MediaRoot)
}

func TestPostgresConfigConnectionInfo(t *testing.T) {
	pc := PostgresConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "yatube"}
	assert.Equal(t, "host=localhost port=5432 user=postgres dbname=yatube sslmode=disable", pc.ConnectionInfo())

	pc.Password = "hunter2"
	assert.Contains(t, pc.ConnectionInfo(), "password=hunter2")
}
