package repositories

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/goccy/go-json"
	"github.com/karlseguin/ccache/v3"

	"properties-api/domain"
)

// CacheRepository define la interfaz del cache de propiedades.
// Los errores se loguean y cuentan como miss; nunca llegan al que llama.
type CacheRepository interface {
	Get(id uint) (*domain.Property, bool)
	Set(property *domain.Property)
	Delete(id uint)
}

// cacheRepository usa ccache local delante de un Memcached opcional
type cacheRepository struct {
	localCache      *ccache.Cache[domain.Property]
	memcachedClient *memcache.Client
	ttl             time.Duration
}

// NewCacheRepository crea el cache. Sin memcachedHost todo queda
// en memoria.
func NewCacheRepository(maxSize int64, ttl time.Duration, memcachedHost string) CacheRepository {
	localCache := ccache.New(ccache.Configure[domain.Property]().MaxSize(maxSize))

	var memcachedClient *memcache.Client
	if memcachedHost != "" {
		memcachedClient = memcache.New(memcachedHost)
		log.Printf("Cache repository initialized with Memcached at %s", memcachedHost)
	} else {
		log.Printf("Cache repository initialized (local only)")
	}

	return &cacheRepository{
		localCache:      localCache,
		memcachedClient: memcachedClient,
		ttl:             ttl,
	}
}

func propertyKey(id uint) string {
	return fmt.Sprintf("property:%d", id)
}

func (r *cacheRepository) Get(id uint) (*domain.Property, bool) {
	key := propertyKey(id)

	if item := r.localCache.Get(key); item != nil && !item.Expired() {
		property := item.Value()
		return &property, true
	}

	if r.memcachedClient == nil {
		return nil, false
	}

	memcachedItem, err := r.memcachedClient.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Printf("Error getting from Memcached: key=%s, error=%v", key, err)
		}
		return nil, false
	}

	var property domain.Property
	if err := json.Unmarshal(memcachedItem.Value, &property); err != nil {
		log.Printf("Error unmarshaling cache data from Memcached: key=%s, error=%v", key, err)
		return nil, false
	}

	r.localCache.Set(key, property, r.ttl)
	return &property, true
}

func (r *cacheRepository) Set(property *domain.Property) {
	key := propertyKey(property.ID)
	r.localCache.Set(key, *property, r.ttl)

	if r.memcachedClient == nil {
		return
	}

	data, err := json.Marshal(property)
	if err != nil {
		log.Printf("Error marshaling cache data for Memcached: key=%s, error=%v", key, err)
		return
	}

	err = r.memcachedClient.Set(&memcache.Item{
		Key:        key,
		Value:      data,
		Expiration: int32(r.ttl / time.Second),
	})
	if err != nil {
		log.Printf("Error setting cache in Memcached: key=%s, error=%v", key, err)
	}
}

func (r *cacheRepository) Delete(id uint) {
	key := propertyKey(id)
	r.localCache.Delete(key)

	if r.memcachedClient == nil {
		return
	}

	if err := r.memcachedClient.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		log.Printf("Error deleting from Memcached: key=%s, error=%v", key, err)
	}
}
