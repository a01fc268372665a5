package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached returns nil when server is empty.
func NewMemcached(server string) *memcache.Client {
	if server == "" {
		return nil
	}
	return memcache.New(server)
}
