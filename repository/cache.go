package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis/Valkey-backed Repository, intended for deployments
// that already run a shared cache/lock tier and want the repository
// layer to piggyback on it instead of standing up a second store.
// Since Redis has no native list-by-prefix, each collection keeps a
// parallel index set alongside its JSON-blob keys.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis/Valkey at url (e.g.
// "redis://localhost:6379/0") and verifies connectivity.
func NewCache(url string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Cache{client: client}, nil
}

const (
	specKeyPrefix = "kgcl:spec:"
	specIndexKey  = "kgcl:spec:index"
	caseKeyPrefix = "kgcl:case:"
	caseIndexKey  = "kgcl:case:index"
	markKeyPrefix = "kgcl:mark:"
)

func markField(placeURI string) string { return placeURI }

func (c *Cache) SaveSpecification(ctx context.Context, spec Specification) error {
	spec.UpdatedAt = time.Now()
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, specKeyPrefix+spec.URI, data, 0)
	pipe.SAdd(ctx, specIndexKey, spec.URI)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Cache) GetSpecification(ctx context.Context, uri string) (Specification, error) {
	data, err := c.client.Get(ctx, specKeyPrefix+uri).Bytes()
	if err == redis.Nil {
		return Specification{}, ErrNotFound
	}
	if err != nil {
		return Specification{}, err
	}
	var spec Specification
	return spec, json.Unmarshal(data, &spec)
}

func (c *Cache) ListSpecifications(ctx context.Context) ([]Specification, error) {
	uris, err := c.client.SMembers(ctx, specIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Specification, 0, len(uris))
	for _, uri := range uris {
		spec, err := c.GetSpecification(ctx, uri)
		if err == nil {
			out = append(out, spec)
		}
	}
	return out, nil
}

func (c *Cache) DeleteSpecification(ctx context.Context, uri string) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, specKeyPrefix+uri)
	pipe.SRem(ctx, specIndexKey, uri)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) SaveCase(ctx context.Context, cs Case) error {
	cs.UpdatedAt = time.Now()
	data, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, caseKeyPrefix+cs.ID, data, 0)
	pipe.SAdd(ctx, caseIndexKey, cs.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Cache) GetCase(ctx context.Context, id string) (Case, error) {
	data, err := c.client.Get(ctx, caseKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return Case{}, ErrNotFound
	}
	if err != nil {
		return Case{}, err
	}
	var cs Case
	return cs, json.Unmarshal(data, &cs)
}

func (c *Cache) ListCases(ctx context.Context, filter CaseFilter) ([]Case, error) {
	ids, err := c.client.SMembers(ctx, caseIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Case, 0, len(ids))
	for _, id := range ids {
		cs, err := c.GetCase(ctx, id)
		if err != nil {
			continue
		}
		if filter.Status == "" || cs.Status == filter.Status {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (c *Cache) DeleteCase(ctx context.Context, id string) error {
	markingSet := markKeyPrefix + id + ":index"
	fields, _ := c.client.SMembers(ctx, markingSet).Result()
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, caseKeyPrefix+id)
	pipe.SRem(ctx, caseIndexKey, id)
	for _, f := range fields {
		pipe.Del(ctx, markKeyPrefix+id+":"+f)
	}
	pipe.Del(ctx, markingSet)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) SaveMarking(ctx context.Context, m Marking) error {
	m.UpdatedAt = time.Now()
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	markingSet := markKeyPrefix + m.CaseID + ":index"
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, markKeyPrefix+m.CaseID+":"+markField(m.PlaceURI), data, 0)
	pipe.SAdd(ctx, markingSet, m.PlaceURI)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Cache) GetMarking(ctx context.Context, caseID, placeURI string) (Marking, error) {
	data, err := c.client.Get(ctx, markKeyPrefix+caseID+":"+markField(placeURI)).Bytes()
	if err == redis.Nil {
		return Marking{}, ErrNotFound
	}
	if err != nil {
		return Marking{}, err
	}
	var m Marking
	return m, json.Unmarshal(data, &m)
}

func (c *Cache) ListMarkings(ctx context.Context, caseID string) ([]Marking, error) {
	places, err := c.client.SMembers(ctx, markKeyPrefix+caseID+":index").Result()
	if err != nil {
		return nil, err
	}
	out := make([]Marking, 0, len(places))
	for _, place := range places {
		m, err := c.GetMarking(ctx, caseID, place)
		if err == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *Cache) DeleteMarking(ctx context.Context, caseID, placeURI string) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, markKeyPrefix+caseID+":"+markField(placeURI))
	pipe.SRem(ctx, markKeyPrefix+caseID+":index", placeURI)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) Close() error {
	return c.client.Close()
}

var _ Repository = (*Cache)(nil)
