package irrigation

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"aquasmart/entities"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Catalog holds the plans currently loaded from a fixture file.
type Catalog struct {
	mu    sync.RWMutex
	path  string
	plans map[int]entities.WeeklyPlan
	log   *zap.SugaredLogger
}

// NewCatalog loads path once. A failed load is returned; callers may still
// use the empty catalog.
func NewCatalog(path string, log *zap.SugaredLogger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Catalog{path: path, plans: map[int]entities.WeeklyPlan{}, log: log}
	return c, c.Reload()
}

// NewStaticCatalog wraps already loaded plans; Reload and Watch are no-ops.
func NewStaticCatalog(plans map[int]entities.WeeklyPlan) *Catalog {
	if plans == nil {
		plans = map[int]entities.WeeklyPlan{}
	}
	return &Catalog{plans: plans, log: zap.NewNop().Sugar()}
}

// Reload re-reads the fixture. On error the previous plans stay in place.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	plans, err := LoadPlans(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.plans = plans
	c.mu.Unlock()
	c.log.Infof("loaded %d irrigation plans from %s", len(plans), c.path)
	return nil
}

func (c *Catalog) Get(fieldID int) (entities.WeeklyPlan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plans[fieldID]
	return p, ok
}

// All returns the plans ordered by field id.
func (c *Catalog) All() []entities.WeeklyPlan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entities.WeeklyPlan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldID < out[j].FieldID })
	return out
}

// Watch reloads the catalog whenever the fixture is written or replaced,
// until ctx ends. The parent directory is watched so editors that save by
// rename are picked up.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(c.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := c.Reload(); err != nil {
					c.log.Warnf("reload irrigation plans: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Warnf("plan watcher: %v", err)
			}
		}
	}()
	return nil
}
