// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"github.com/open-source-firmware/go-tape-encryption/pkg/ssp"
)

// EncryptionStatus reads and decodes the Data Encryption Status page.
func EncryptionStatus(d DriveIntf) (*ssp.DES, error) {
	raw := make([]byte, ssp.PageAllocation)
	if err := d.IFRecv(SecurityProtocolTapeEncryption, ssp.PageDeviceEncryptionStatus, &raw); err != nil {
		return nil, err
	}
	return ssp.ParseDES(raw)
}

// NextBlockStatus reads and decodes the Next Block Encryption Status
// page for the block at the current logical position.
func NextBlockStatus(d DriveIntf) (*ssp.NBES, error) {
	raw := make([]byte, ssp.PageAllocation)
	if err := d.IFRecv(SecurityProtocolTapeEncryption, ssp.PageNextBlockEncryptionStatus, &raw); err != nil {
		return nil, err
	}
	return ssp.ParseNBES(raw)
}

// Capabilities reads and decodes the Device Encryption Capabilities
// page.
func Capabilities(d DriveIntf) (*ssp.DEC, error) {
	raw := make([]byte, ssp.PageAllocation)
	if err := d.IFRecv(SecurityProtocolTapeEncryption, ssp.PageDeviceEncryptionCapabilities, &raw); err != nil {
		return nil, err
	}
	return ssp.ParseDEC(raw)
}

// SetEncryption serializes p and sends it to the drive as a Set Data
// Encryption page.
func SetEncryption(d DriveIntf, p *ssp.SDE) error {
	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return d.IFSend(SecurityProtocolTapeEncryption, ssp.PageSetDataEncryption, b)
}
