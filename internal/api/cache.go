package api

import (
	"sync"
	"time"
)

type projectCache struct {
	mu        sync.RWMutex
	projects  []Project
	fetchedAt time.Time
	ttl       time.Duration
}

func newProjectCache(ttl time.Duration) *projectCache {
	return &projectCache{ttl: ttl}
}

func (c *projectCache) get() []Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.projects == nil || time.Since(c.fetchedAt) > c.ttl {
		return nil
	}

	result := make([]Project, len(c.projects))
	copy(result, c.projects)
	return result
}

func (c *projectCache) set(projects []Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.projects = make([]Project, len(projects))
	copy(c.projects, projects)
	c.fetchedAt = time.Now()
}

func (c *projectCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.projects = nil
}
