package rtmp

import (
	"sync"
	"syscall"
	"time"
)

const abortRetry = 50 * time.Millisecond

// socketGuard keeps a duplicate descriptor of every socket the dialer opens
// so the handshake go-rtmp runs inside DialWithDialer can be cut short.
// Shutting the duplicate down ends the connection for both descriptors.
type socketGuard struct {
	mu       sync.Mutex
	fds      []int
	aborted  bool
	released bool
}

// dialControl is nil where descriptors cannot be duplicated.
func (g *socketGuard) dialControl() func(network, address string, c syscall.RawConn) error {
	if !guardSupported {
		return nil
	}
	return g.control
}

func (g *socketGuard) control(_, _ string, c syscall.RawConn) error {
	var dupErr error
	err := c.Control(func(fd uintptr) {
		var dup int
		if dup, dupErr = dupFD(fd); dupErr == nil {
			g.track(dup)
		}
	})
	if err != nil {
		return err
	}
	return dupErr
}

func (g *socketGuard) track(fd int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		closeFD(fd)
		return
	}
	g.fds = append(g.fds, fd)
	if g.aborted {
		_ = shutdownFD(fd)
	}
}

// abort shuts every tracked socket down. A socket still connecting cannot be
// shut down yet, so abort retries until release.
func (g *socketGuard) abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return
	}
	g.aborted = true
	retry := false
	for _, fd := range g.fds {
		if err := shutdownFD(fd); err != nil && notConnected(err) {
			retry = true
		}
	}
	if retry {
		time.AfterFunc(abortRetry, g.abort)
	}
}

func (g *socketGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = true
	for _, fd := range g.fds {
		closeFD(fd)
	}
	g.fds = nil
}
