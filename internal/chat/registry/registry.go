package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/message"
)

// Participant - named and registered chat connection.
type Participant struct {
	Name     string
	Conn     conn.Conn
	JoinedAt time.Time

	// Inbound and Messages are touched only by the dispatch loop.
	Inbound  message.Builder
	Messages int
}

// Registry - keeps participants by display name.
type Registry struct {
	mu   sync.RWMutex
	list map[string]*Participant
	now  func() time.Time
}

// New - creates empty registry.
func New() *Registry {
	return &Registry{
		list: make(map[string]*Participant),
		now:  time.Now,
	}
}

// Len - returns number of participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Insert - registers connection under the name.
// Name comparison is exact, ErrNameTaken is returned for present name and existing participant stays untouched.
// Pending input received before registration is queued into participant's Inbound.
func (r *Registry) Insert(name string, c conn.Conn, pending ...[]byte) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[name]; ok {
		return nil, ErrNameTaken
	}
	p := &Participant{Name: name, Conn: c, JoinedAt: r.now().UTC()}
	for _, data := range pending {
		p.Inbound.Write(data)
	}
	r.list[name] = p
	return p, nil
}

// Remove - unregisters participant and reports whether this call has removed it.
func (r *Registry) Remove(name string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.list[name]
	if ok {
		delete(r.list, name)
	}
	return p, ok
}

// Discard - unregisters exactly p, a participant registered later under the same name stays.
// Reports whether this call has removed p.
func (r *Registry) Discard(p *Participant) bool {
	if p == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.list[p.Name] != p {
		return false
	}
	delete(r.list, p.Name)
	return true
}

// Lookup - finds participant by name.
func (r *Registry) Lookup(name string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.list[name]
	return p, ok
}

// Names - returns sorted names of all participants.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.list)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Snapshot - returns participants sorted by name.
// The slice is built under the lock, so it never reflects a half-applied insert or remove.
func (r *Registry) Snapshot() []*Participant {
	r.mu.RLock()
	snapshot := lo.Values(r.list)
	r.mu.RUnlock()
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Name < snapshot[j].Name
	})
	return snapshot
}
