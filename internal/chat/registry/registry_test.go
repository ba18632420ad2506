package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wtask/termchat/internal/mocks"
)

func TestRegistry_Insert_DistinctNamesAreListedSorted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()

	// Given joins in random order
	names := []string{"carol", "alice", "Bob", "bob", "dave"}
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	for _, name := range names {
		_, err := r.Insert(name, mocks.NewMockConn(ctrl))
		req.NoError(err)
	}

	// Then there is one participant per name, listed in sorted order
	req.Equal(5, r.Len())
	req.Equal([]string{"Bob", "alice", "bob", "carol", "dave"}, r.Names())

	snapshot := r.Snapshot()
	req.Len(snapshot, 5)
	for i, p := range snapshot {
		req.Equal(r.Names()[i], p.Name)
		req.False(p.JoinedAt.IsZero())
	}
}

func TestRegistry_Insert_NameTaken(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()
	first := mocks.NewMockConn(ctrl)
	second := mocks.NewMockConn(ctrl)

	_, err := r.Insert("alice", first)
	req.NoError(err)

	// When the same name is registered again
	p, err := r.Insert("alice", second)

	// Then NameTaken is returned and the existing participant is untouched
	req.ErrorIs(err, ErrNameTaken)
	req.Nil(p)
	existing, ok := r.Lookup("alice")
	req.True(ok)
	req.Same(first, existing.Conn)
	req.Equal(1, r.Len())
}

func TestRegistry_Insert_QueuesPendingInput(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()

	p, err := r.Insert("alice", mocks.NewMockConn(ctrl), []byte("hello\n"), []byte("wor"), []byte("ld\n"))
	req.NoError(err)
	req.Equal([]string{"hello", "world"}, p.Inbound.Lines())

	// a rejected insert touches nobody's input
	_, err = r.Insert("alice", mocks.NewMockConn(ctrl), []byte("lost\n"))
	req.ErrorIs(err, ErrNameTaken)
	req.Zero(p.Inbound.Total())
}

func TestRegistry_Remove_OnlyOnce(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()
	c := mocks.NewMockConn(ctrl)
	_, err := r.Insert("bob", c)
	req.NoError(err)

	p, ok := r.Remove("bob")
	req.True(ok)
	req.Same(c, p.Conn)

	_, ok = r.Remove("bob")
	req.False(ok)
	_, ok = r.Lookup("bob")
	req.False(ok)
	req.Empty(r.Names())
	req.Empty(r.Snapshot())
}

func TestRegistry_ConcurrentInsertSameName(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()

	wg := sync.WaitGroup{}
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Insert("racer", mocks.NewMockConn(ctrl))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		req.ErrorIs(err, ErrNameTaken)
	}
	req.Equal(1, won)
	req.Equal([]string{"racer"}, r.Names())
}

func TestRegistry_SnapshotIsStable(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()
	for i := 0; i < 3; i++ {
		_, err := r.Insert(fmt.Sprintf("user-%d", i), mocks.NewMockConn(ctrl))
		req.NoError(err)
	}

	snapshot := r.Snapshot()
	r.Remove("user-1")
	_, err := r.Insert("user-9", mocks.NewMockConn(ctrl))
	req.NoError(err)

	// Snapshot taken before mutation keeps its content
	req.Len(snapshot, 3)
	req.Equal("user-1", snapshot[1].Name)
	req.Equal([]string{"user-0", "user-2", "user-9"}, r.Names())
}

func TestRegistry_Discard(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	r := New()

	first, err := r.Insert("alice", mocks.NewMockConn(ctrl))
	req.NoError(err)
	req.True(r.Discard(first))
	req.False(r.Discard(first), "second discard must not report removal")

	// the name is reused by the next participant, stale pointer leaves it alone
	second, err := r.Insert("alice", mocks.NewMockConn(ctrl))
	req.NoError(err)
	req.False(r.Discard(first))
	p, ok := r.Lookup("alice")
	req.True(ok)
	req.Same(second, p)

	req.False(r.Discard(nil))
	req.Equal(1, r.Len())
}
