//go:build unix

package rtmp

import (
	"errors"
	"syscall"
)

const guardSupported = true

func dupFD(fd uintptr) (int, error) {
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()
	dup, err := syscall.Dup(int(fd))
	if err != nil {
		return -1, err
	}
	syscall.CloseOnExec(dup)
	return dup, nil
}

func shutdownFD(fd int) error { return syscall.Shutdown(fd, syscall.SHUT_RDWR) }

func closeFD(fd int) { _ = syscall.Close(fd) }

func notConnected(err error) bool { return errors.Is(err, syscall.ENOTCONN) }
