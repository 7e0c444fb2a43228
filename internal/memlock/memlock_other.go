//go:build !linux

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package memlock

import "errors"

// Lock is unsupported outside Linux; mlockall has no portable equivalent.
func Lock() error {
	return errors.New("memlock: not supported on this platform")
}
