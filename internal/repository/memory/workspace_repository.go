package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"academic-ai-be/internal/store"
)

// Workspace is the per-user working set: the sessions and documents
// currently loaded, plus which of each is open.
type Workspace struct {
	Sessions  *store.SessionStore
	Documents *store.DocumentStore
	DocChat   *DocumentChat
}

type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository() *WorkspaceRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
	}
}

// Get returns the user's workspace, creating an empty one on first use.
// Each access renews the expiration so active users are never evicted
// mid-conversation.
func (r *WorkspaceRepository) Get(userId uuid.UUID) *Workspace {
	key := userId.String()
	if x, found := r.cache.Get(key); found {
		ws := x.(*Workspace)
		r.cache.Set(key, ws, cache.DefaultExpiration)
		return ws
	}
	ws := &Workspace{
		Sessions:  store.NewSessionStore(),
		Documents: store.NewDocumentStore(),
		DocChat:   NewDocumentChat(),
	}
	r.cache.Set(key, ws, cache.DefaultExpiration)
	return ws
}

func (r *WorkspaceRepository) Delete(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
