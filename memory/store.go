// Package memory holds the persisted per-creep records that survive between
// ticks. The core owns the lifecycle: records are created on spawn, read and
// written every tick, and deleted once the creep no longer exists.
package memory

import (
	"context"
	"fmt"

	"github.com/nstehr/burrow/burrow-core/model"
)

// Creep is the persisted record for a single creep. Target ids are
// opportunistic caches and are never trusted without a validity check.
type Creep struct {
	Role         string      `json:"role"`
	State        model.State `json:"state,omitempty"`
	SourceID     string      `json:"sourceId,omitempty"`
	TargetID     string      `json:"targetId,omitempty"`
	WorkTargetID string      `json:"workTargetId,omitempty"`
}

// ClearTargets drops every cached target id. Safe to call repeatedly.
func (c *Creep) ClearTargets() {
	c.SourceID = ""
	c.TargetID = ""
	c.WorkTargetID = ""
}

// Store is a keyed creep-record store. Get reports absence with ok=false
// rather than an error.
type Store interface {
	Get(ctx context.Context, name string) (rec Creep, ok bool, err error)
	Put(ctx context.Context, name string, rec Creep) error
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
	Close() error
}

// Open builds the store selected by backend ("memory", "sqlite", "redis").
func Open(backend, sqlitePath, redisAddr, redisPrefix string) (Store, error) {
	switch backend {
	case "", "memory":
		return NewMapStore(), nil
	case "sqlite":
		return OpenSQLite(sqlitePath)
	case "redis":
		return NewRedisStore(redisAddr, redisPrefix)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", backend)
	}
}
