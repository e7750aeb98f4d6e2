// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package termcache remembers describe results that can no longer
// change: jobs in a terminal status, and models, which are immutable
// until deleted. Tag changes still show up in labeling job results,
// so tagging a resource drops its entry.
package termcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	lru "github.com/hashicorp/golang-lru"
)

const DefaultMaxEntries = 1000

// Cache wraps an API. Describe calls are answered from the cache
// when possible; all other calls go straight to the wrapped API.
//
// Cached values share maps and slices with the values returned by
// earlier calls. Callers must not modify them.
type Cache struct {
	mlplane.API

	// Maximum number of cached describe results. Zero means
	// DefaultMaxEntries.
	MaxEntries int
	// Entries older than TTL are refetched. Zero means entries
	// never expire.
	TTL mlplane.Duration

	stats     cacheStats
	entries   *lru.TwoQueueCache
	setupOnce sync.Once
}

type cacheStats struct {
	Requests uint64 `json:"Cache.Requests"`
	Hits     uint64 `json:"Cache.Hits"`
	Entries  int    `json:"Cache.Entries"`
}

type cachedResource struct {
	expire   time.Time
	resource mlplane.Resource
}

var _ mlplane.API = (*Cache)(nil)

func (c *Cache) setup() {
	size := c.MaxEntries
	if size <= 0 {
		size = DefaultMaxEntries
	}
	var err error
	c.entries, err = lru.New2Q(size)
	if err != nil {
		panic(err)
	}
}

func (c *Cache) Stats() cacheStats {
	c.setupOnce.Do(c.setup)
	return cacheStats{
		Requests: atomic.LoadUint64(&c.stats.Requests),
		Hits:     atomic.LoadUint64(&c.stats.Hits),
		Entries:  c.entries.Len(),
	}
}

func cacheKey(kind mlplane.ResourceKind, name string) string {
	return string(kind) + "/" + name
}

// Forget removes the named resource's entry, if any.
func (c *Cache) Forget(kind mlplane.ResourceKind, name string) {
	c.setupOnce.Do(c.setup)
	c.entries.Remove(cacheKey(kind, name))
}

// final reports whether r can be cached.
func final(r mlplane.Resource) bool {
	st := r.ResourceStatus()
	return st == nil || st.Terminal()
}

func describe[T mlplane.Resource](ctx context.Context, c *Cache, kind mlplane.ResourceKind, name string, fetch func(context.Context, mlplane.GetOptions) (T, error)) (T, error) {
	c.setupOnce.Do(c.setup)
	atomic.AddUint64(&c.stats.Requests, 1)
	key := cacheKey(kind, name)
	if ent, ok := c.entries.Get(key); ok {
		ent := ent.(*cachedResource)
		if !ent.expire.IsZero() && ent.expire.Before(time.Now()) {
			c.entries.Remove(key)
		} else if r, ok := ent.resource.(T); ok {
			atomic.AddUint64(&c.stats.Hits, 1)
			return r, nil
		}
	}
	r, err := fetch(ctx, mlplane.GetOptions{Name: name})
	if err != nil {
		return r, err
	}
	if final(r) {
		ent := &cachedResource{resource: r}
		if c.TTL > 0 {
			ent.expire = time.Now().Add(time.Duration(c.TTL))
		}
		c.entries.Add(key, ent)
	}
	return r, nil
}

func (c *Cache) TrainingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TrainingJob, error) {
	return describe(ctx, c, mlplane.KindTrainingJob, opts.Name, c.API.TrainingJobDescribe)
}

func (c *Cache) TuningJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TuningJob, error) {
	return describe(ctx, c, mlplane.KindTuningJob, opts.Name, c.API.TuningJobDescribe)
}

func (c *Cache) LabelingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.LabelingJob, error) {
	return describe(ctx, c, mlplane.KindLabelingJob, opts.Name, c.API.LabelingJobDescribe)
}

func (c *Cache) TransformJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TransformJob, error) {
	return describe(ctx, c, mlplane.KindTransformJob, opts.Name, c.API.TransformJobDescribe)
}

func (c *Cache) EndpointDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Endpoint, error) {
	return describe(ctx, c, mlplane.KindEndpoint, opts.Name, c.API.EndpointDescribe)
}

func (c *Cache) NotebookInstanceDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.NotebookInstance, error) {
	return describe(ctx, c, mlplane.KindNotebookInstance, opts.Name, c.API.NotebookInstanceDescribe)
}

func (c *Cache) ModelDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Model, error) {
	return describe(ctx, c, mlplane.KindModel, opts.Name, c.API.ModelDescribe)
}

// Deleting a resource frees its name for reuse, so the entry must
// go even if the call fails partway.

func (c *Cache) EndpointDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	defer c.Forget(mlplane.KindEndpoint, opts.Name)
	return c.API.EndpointDelete(ctx, opts)
}

func (c *Cache) NotebookInstanceDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	defer c.Forget(mlplane.KindNotebookInstance, opts.Name)
	return c.API.NotebookInstanceDelete(ctx, opts)
}

func (c *Cache) ModelDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	defer c.Forget(mlplane.KindModel, opts.Name)
	return c.API.ModelDelete(ctx, opts)
}

func (c *Cache) TagsAdd(ctx context.Context, opts mlplane.AddTagsOptions) error {
	defer c.forgetARN(opts.ResourceARN)
	return c.API.TagsAdd(ctx, opts)
}

func (c *Cache) TagsDelete(ctx context.Context, opts mlplane.DeleteTagsOptions) error {
	defer c.forgetARN(opts.ResourceARN)
	return c.API.TagsDelete(ctx, opts)
}

func (c *Cache) forgetARN(arn string) {
	if parsed, err := mlplane.ParseARN(arn); err == nil {
		c.Forget(parsed.Kind, parsed.Name)
	}
}
