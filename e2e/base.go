package e2e

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"github.com/wtask/termchat/internal/chat"
)

const ioTimeout = 3 * time.Second

type BaseChatSuite struct {
	suite.Suite
	Config Config

	stop   context.CancelFunc
	served chan error
	peers  []*Peer
}

// SetupSuite loads the environment configuration and starts in-process server when no address is given.
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.Addr != "" {
		return
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	server, err := chat.NewServer(chat.WithTick(10*time.Millisecond), chat.WithShutdownDelay(0))
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	s.served = make(chan error, 1)
	go func() { s.served <- server.Serve(ctx, listener) }()
	s.Config.Addr = listener.Addr().String()
}

// TearDownTest disconnects peers of the finished test.
func (s *BaseChatSuite) TearDownTest() {
	for _, p := range s.peers {
		p.conn.Close()
	}
	s.peers = nil
}

func (s *BaseChatSuite) TearDownSuite() {
	if s.stop == nil {
		return
	}
	s.stop()
	select {
	case err := <-s.served:
		s.Require().NoError(err)
	case <-time.After(ioTimeout):
		s.Fail("chat server is still serving")
	}
}

// Step prints a colorized header for the scenario step.
func (s *BaseChatSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Peer - raw line-oriented participant of the chat.
type Peer struct {
	s      *BaseChatSuite
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects new peer to the chat server.
func (s *BaseChatSuite) Dial() *Peer {
	c, err := net.DialTimeout("tcp", s.Config.Addr, ioTimeout)
	s.Require().NoError(err, "failed to connect chat server at "+s.Config.Addr)
	p := &Peer{s: s, conn: c, reader: bufio.NewReader(c)}
	s.peers = append(s.peers, p)
	return p
}

// Join dials the server and passes name negotiation, greeting lines are returned.
func (s *BaseChatSuite) Join(name string) (*Peer, []string) {
	p := s.Dial()
	p.ExpectPrompt()
	p.Say(name)
	greeting := []string{p.Line(), p.Line(), p.Line()}
	s.Require().Equal(fmt.Sprintf("Welcome %s!\n", name), greeting[0])
	return p, greeting
}

func (p *Peer) ExpectPrompt() {
	p.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	prompt := make([]byte, len("Please enter your name: "))
	_, err := io.ReadFull(p.reader, prompt)
	p.s.Require().NoError(err)
	p.s.Require().Equal("Please enter your name: ", string(prompt))
}

func (p *Peer) Say(line string) {
	_, err := p.conn.Write([]byte(line + "\n"))
	p.s.Require().NoError(err)
}

func (p *Peer) Line() string {
	p.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	line, err := p.reader.ReadString('\n')
	p.s.Require().NoError(err)
	return line
}

// Event reads chat event line and strips its timestamp.
func (p *Peer) Event() string {
	line := p.Line()
	p.s.Require().True(strings.HasPrefix(line, "["), "not an event: %q", line)
	_, rest, ok := strings.Cut(line, "] ")
	p.s.Require().True(ok, "not an event: %q", line)
	return rest
}

// EventOf reads events until the one originated by name, events of peers left from
// previous scenarios are skipped. Returned event has no timestamp.
func (p *Peer) EventOf(name string) string {
	for {
		event := p.Event()
		if strings.HasPrefix(event, name+" ") || strings.HasPrefix(event, name+":") {
			return event
		}
		p.s.T().Logf("skipped event %q", event)
	}
}

func (p *Peer) ExpectClosed() {
	p.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	_, err := p.reader.ReadString('\n')
	p.s.Require().ErrorIs(err, io.EOF)
}
