// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package memlock optionally pins the calling process's memory pages in
// RAM so content keys and recipient secrets are never written to swap.
// Unlike a package init, locking is opt-in: a library import must not force
// every caller's process into mlockall, only a process that deliberately
// handles key material (the CLI) should pay that cost and risk its failure
// mode.
package memlock

import "syscall"

// Lock calls mlockall(MCL_CURRENT|MCL_FUTURE) for the current process. It
// returns an error instead of exiting so the caller decides whether a
// locking failure (common in unprivileged containers) is fatal.
func Lock() error {
	return syscall.Mlockall(syscall.MCL_CURRENT | syscall.MCL_FUTURE)
}
