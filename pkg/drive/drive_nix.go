// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"os"
	"syscall"
)

// Open opens a tape device node (/dev/nst0, /dev/st0 or the matching
// /dev/sg node) for security protocol traffic. O_NONBLOCK lets the
// open succeed with no volume loaded, which is enough for capability
// and status queries; the no-rewind node is the sensible choice since
// nothing here should move tape.
func Open(device string) (DriveIntf, error) {
	d, err := os.OpenFile(device, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}

	if isTape(d) {
		return TapeDrive(d), nil
	}

	d.Close()
	return nil, ErrDeviceNotSupported
}
