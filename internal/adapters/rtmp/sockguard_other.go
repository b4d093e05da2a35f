//go:build !unix

package rtmp

import "errors"

const guardSupported = false

var errNoGuard = errors.New("socket guard unsupported")

func dupFD(uintptr) (int, error) { return -1, errNoGuard }

func shutdownFD(int) error { return errNoGuard }

func closeFD(int) {}

func notConnected(error) bool { return false }
