package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey_NormalizesParamOrder(t *testing.T) {
	a := Key("GET", "/api/posts", "page=2&search=coffee")
	b := Key("GET", "/api/posts", "search=coffee&page=2")

	assert.Equal(t, a, b)
}

func TestKey_DifferentPaths(t *testing.T) {
	assert.NotEqual(t,
		Key("GET", "/api/posts", ""),
		Key("GET", "/api/summary", ""))
}

func TestGetSet(t *testing.T) {
	c := New(time.Minute)
	key := Key("GET", "/api/summary", "")

	_, _, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, 200, []byte(`{"total_posts":1}`))

	data, status, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, []byte(`{"total_posts":1}`), data)
}

func TestGet_Expired(t *testing.T) {
	c := New(10 * time.Millisecond)
	key := Key("GET", "/api/summary", "")
	c.Set(key, 200, []byte("data"))

	time.Sleep(20 * time.Millisecond)

	_, _, ok := c.Get(key)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 200, []byte("1"))
	c.Set("b", 200, []byte("2"))

	c.Clear()

	_, _, ok := c.Get("a")
	assert.False(t, ok)
	_, _, ok = c.Get("b")
	assert.False(t, ok)
}
