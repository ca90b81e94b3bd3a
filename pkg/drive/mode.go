// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"fmt"
)

// ModePageDataCompression is the mode page carrying the drive's
// compression settings.
const ModePageDataCompression = 0x0f

type Compression struct {
	Capable              bool
	Enabled              bool
	DecompressionEnabled bool
}

// CompressionStatus reads the data compression mode page.
func CompressionStatus(d DriveIntf) (*Compression, error) {
	ms, ok := d.(ModeSenser)
	if !ok {
		return nil, ErrNotSupported
	}
	raw, err := ms.ModeSense(ModePageDataCompression, 0, 0)
	if err != nil {
		return nil, err
	}
	return parseCompressionPage(raw)
}

// parseCompressionPage walks a MODE SENSE(6) response to the data
// compression page: 4-byte parameter header, the block descriptors it
// declares, then the page itself.
func parseCompressionPage(b []byte) (*Compression, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("mode parameter header of %d bytes is too short", len(b))
	}
	off := 4 + int(b[3])
	if off+4 > len(b) {
		return nil, fmt.Errorf("mode page data truncated at %d bytes", len(b))
	}
	p := b[off:]
	if p[0]&0x3f != ModePageDataCompression {
		return nil, fmt.Errorf("mode page 0x%02x, want 0x%02x", p[0]&0x3f, ModePageDataCompression)
	}
	return &Compression{
		Enabled:              p[2]&0x80 > 0,
		Capable:              p[2]&0x40 > 0,
		DecompressionEnabled: p[3]&0x80 > 0,
	}, nil
}
