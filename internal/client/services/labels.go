package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/labels"
	"github.com/dmitrijs2005/mark3t-rep/internal/logging"
)

var (
	shopOwners = []string{"Alice", "Bob", "Gav", "Ionut"}
	shopGoods  = []string{"Book", "Coffee", "Tea", "Drug", "Movie"}
	shopKinds  = []string{"Shop", "Store", "Emporium", "Outlet"}
)

// ShopName derives a stable display name for subjects that have no label yet.
func ShopName(subjectID uint32) string {
	owner := shopOwners[subjectID%uint32(len(shopOwners))]
	good := shopGoods[(subjectID/uint32(len(shopOwners)))%uint32(len(shopGoods))]
	kind := shopKinds[(subjectID/uint32(len(shopOwners)*len(shopGoods)))%uint32(len(shopKinds))]
	return fmt.Sprintf("%s's %s %s", owner, good, kind)
}

// LabelCache is the subject label table. The first label stored for a
// subject wins; later inserts return it unchanged.
type LabelCache struct {
	mu     sync.Mutex
	labels map[uint32]string
	repo   labels.Repository
	log    logging.Logger
	gen    func(uint32) string
}

// NewLabelCache builds a cache persisted to repo. repo may be nil.
func NewLabelCache(repo labels.Repository, log logging.Logger) *LabelCache {
	if log == nil {
		log = logging.Nop()
	}
	return &LabelCache{
		labels: make(map[uint32]string),
		repo:   repo,
		log:    log.With("module", "labels"),
		gen:    ShopName,
	}
}

// Warm loads every persisted label into memory.
func (c *LabelCache) Warm(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	all, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm label cache: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, l := range all {
		if _, ok := c.labels[id]; !ok {
			c.labels[id] = l
		}
	}
	return nil
}

// Remember stores label for subjectID unless one exists and returns the
// label in effect.
func (c *LabelCache) Remember(ctx context.Context, subjectID uint32, label string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.labels[subjectID]; ok {
		return l
	}
	if c.repo != nil {
		stored, err := c.repo.InsertIfAbsent(ctx, subjectID, label)
		if err != nil {
			c.log.Warn(ctx, "label not persisted", "subject", subjectID, "error", err)
		} else {
			label = stored
		}
	}
	c.labels[subjectID] = label
	return label
}

// Resolve returns the label of subjectID, generating one on first use.
func (c *LabelCache) Resolve(ctx context.Context, subjectID uint32) string {
	c.mu.Lock()
	l, ok := c.labels[subjectID]
	c.mu.Unlock()
	if ok {
		return l
	}
	return c.Remember(ctx, subjectID, c.gen(subjectID))
}

func (c *LabelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.labels)
}

// Reset forgets every in-memory label.
func (c *LabelCache) Reset() {
	c.mu.Lock()
	c.labels = make(map[uint32]string)
	c.mu.Unlock()
}
