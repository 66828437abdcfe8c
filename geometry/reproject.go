package geometry

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/docker/docker/pkg/locker"
	lru "github.com/hashicorp/golang-lru"
)

const transformCacheSize = 64

// transformCache holds constructed Transformers, keyed by the proj4 definitions of the
// source and destination CRS, so redefining a registered name never reuses a stale entry.
// Construction of a particular pair is serialized by a per-key lock, so concurrent
// callers share a single Transformer.
type transformCache struct {
	cache *lru.Cache
	locks *locker.Locker
}

var (
	defaultTransformsOnce sync.Once
	defaultTransforms     *transformCache
)

func transforms() *transformCache {
	defaultTransformsOnce.Do(func() {
		cache, err := lru.New(transformCacheSize)
		if err != nil {
			panic(err)
		}
		defaultTransforms = &transformCache{cache: cache, locks: locker.New()}
	})
	return defaultTransforms
}

func (c *transformCache) get(srcCRS string, dstCRS string) (proj.Transformer, error) {
	srcDef, err := ResolveCRS(srcCRS)
	if err != nil {
		return nil, err
	}
	dstDef, err := ResolveCRS(dstCRS)
	if err != nil {
		return nil, err
	}
	key := srcDef + "\x00" + dstDef
	if t, ok := c.cache.Get(key); ok {
		return t.(proj.Transformer), nil
	}
	c.locks.Lock(key)
	defer c.locks.Unlock(key)
	if t, ok := c.cache.Get(key); ok {
		return t.(proj.Transformer), nil
	}
	src, err := parseDefinition(srcCRS, srcDef)
	if err != nil {
		return nil, err
	}
	dst, err := parseDefinition(dstCRS, dstDef)
	if err != nil {
		return nil, err
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("unable to transform from %s to %s: %w", srcCRS, dstCRS, err)
	}
	c.cache.Add(key, t)
	return t, nil
}

// Transformer returns a (cached) coordinate Transformer from one CRS to another
func Transformer(srcCRS string, dstCRS string) (proj.Transformer, error) {
	return transforms().get(srcCRS, dstCRS)
}

// ReprojectGeometry transforms a geometry from one coordinate reference system to another.
// An unknown source or destination CRS produces an UnknownCRSError.
func ReprojectGeometry(g geom.Geom, srcCRS string, dstCRS string) (geom.Geom, error) {
	t, err := Transformer(srcCRS, dstCRS)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	out, err := g.Transform(t)
	if err != nil {
		return nil, fmt.Errorf("unable to reproject geometry from %s to %s: %w", srcCRS, dstCRS, err)
	}
	return out, nil
}
