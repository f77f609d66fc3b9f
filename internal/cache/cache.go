package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Запись кэша со сроком годности
type entry struct {
	data      []byte
	status    int
	expiresAt time.Time
}

// Cache - потокобезопасный read-through кэш ответов API с TTL.
// Ключ - метод + путь + нормализованный query string.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New создаёт кэш и запускает фоновую очистку протухших записей
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Key строит ключ из метода, пути и query string. Параметры
// сортируются, чтобы порядок в URL не плодил дубликаты.
func Key(method, path, rawQuery string) string {
	params := strings.Split(rawQuery, "&")
	sort.Strings(params)
	return method + " " + path + "?" + strings.Join(params, "&")
}

// Get возвращает закэшированный ответ, false если записи нет или она протухла
func (c *Cache) Get(key string) ([]byte, int, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, 0, false
	}
	return e.data, e.status, true
}

// Set сохраняет ответ на TTL кэша
func (c *Cache) Set(key string, status int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		status:    status,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear полностью опустошает кэш (вызывается после успешного импорта)
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
