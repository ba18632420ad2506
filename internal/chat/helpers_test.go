package chat

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wtask/termchat/internal/mocks"
)

var noon = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return noon }

func newTestServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	s, err := NewServer(append([]Option{WithClock(fixedClock)}, options...)...)
	require.NoError(t, err)
	return s
}

// mockConn - connection mock with logging attributes stubbed.
func mockConn(ctrl *gomock.Controller, id string) *mocks.MockConn {
	c := mocks.NewMockConn(ctrl)
	c.EXPECT().ID().Return(id).AnyTimes()
	c.EXPECT().RemoteAddr().Return(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}).AnyTimes()
	return c
}

// join - registers mocked participant bypassing name negotiation.
func join(t *testing.T, s *Server, ctrl *gomock.Controller, name string) *mocks.MockConn {
	t.Helper()
	c := mockConn(ctrl, name+"-session")
	_, err := s.registry.Insert(name, c)
	require.NoError(t, err)
	return c
}
