// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/binary"
	"fmt"
)

const nbesFixedSize = 16

// NBES is the decoded Next Block Encryption Status page, describing
// the block at the drive's current logical position.
type NBES struct {
	LogicalObjectNumber uint64
	CompressionStatus   uint8
	EncryptionStatus    uint8
	AlgorithmIndex      uint8
	EMES                bool // encryption mode external status
	RDMDS               bool // raw decryption mode disabled status
	KADFormat           KADFormat
	KADs                []KAD
}

// Encryption status values reported for the next block.
const (
	BlockStatusCapabilityUnknown uint8 = 0
	BlockStatusUnknown           uint8 = 1
	BlockStatusNotLogicalBlock   uint8 = 2
	BlockStatusNotEncrypted      uint8 = 3
	BlockStatusUnsupportedAlg    uint8 = 4
	BlockStatusEncrypted         uint8 = 5
	BlockStatusNoKey             uint8 = 6
)

// BlockStatusString names a next-block encryption status value.
func BlockStatusString(s uint8) string {
	switch s {
	case BlockStatusCapabilityUnknown:
		return "incapable of determining"
	case BlockStatusUnknown:
		return "not able to determine"
	case BlockStatusNotLogicalBlock:
		return "not a logical block"
	case BlockStatusNotEncrypted:
		return "not encrypted"
	case BlockStatusUnsupportedAlg:
		return "encrypted, algorithm not supported"
	case BlockStatusEncrypted:
		return "encrypted"
	case BlockStatusNoKey:
		return "encrypted, key missing or invalid"
	}
	return fmt.Sprintf("unknown(%d)", s)
}

// ParseNBES decodes a Next Block Encryption Status page. KAD
// descriptors alias b.
func ParseNBES(b []byte) (*NBES, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	trailer, err := trailingRegion(b, h, PageNextBlockEncryptionStatus, nbesFixedSize)
	if err != nil {
		return nil, fmt.Errorf("next block encryption status: %v", err)
	}
	kads, err := parseKADs(trailer)
	if err != nil {
		return nil, fmt.Errorf("next block encryption status: %v", err)
	}
	return &NBES{
		LogicalObjectNumber: binary.BigEndian.Uint64(b[4:12]),
		CompressionStatus:   getBits(b[12], 4, 4),
		EncryptionStatus:    getBits(b[12], 0, 4),
		AlgorithmIndex:      b[13],
		EMES:                getBit(b[14], 1),
		RDMDS:               getBit(b[14], 0),
		KADFormat:           KADFormat(b[15]),
		KADs:                kads,
	}, nil
}
