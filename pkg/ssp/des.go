// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/binary"
	"fmt"
)

const desFixedSize = 24

// DES is the decoded Data Encryption Status page, reporting the data
// encryption parameters in effect for the I_T nexus the page was read
// over.
type DES struct {
	ITNexusScope       uint8
	ParametersScope    uint8
	EncryptionMode     EncryptMode
	DecryptionMode     DecryptMode
	AlgorithmIndex     uint8
	KeyInstanceCounter uint32
	ParametersControl  uint8
	VCELB              bool // volume contains encrypted logical blocks
	CEEMS              uint8
	RDMD               bool // raw decryption mode disabled
	KADFormat          KADFormat
	ASDKCount          uint16
	KADs               []KAD
}

// ParseDES decodes a Data Encryption Status page. KAD descriptors
// alias b.
func ParseDES(b []byte) (*DES, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	trailer, err := trailingRegion(b, h, PageDeviceEncryptionStatus, desFixedSize)
	if err != nil {
		return nil, fmt.Errorf("data encryption status: %v", err)
	}
	kads, err := parseKADs(trailer)
	if err != nil {
		return nil, fmt.Errorf("data encryption status: %v", err)
	}
	return &DES{
		ITNexusScope:       getBits(b[4], 5, 3),
		ParametersScope:    getBits(b[4], 0, 3),
		EncryptionMode:     EncryptMode(b[5]),
		DecryptionMode:     DecryptMode(b[6]),
		AlgorithmIndex:     b[7],
		KeyInstanceCounter: binary.BigEndian.Uint32(b[8:12]),
		ParametersControl:  getBits(b[12], 4, 3),
		VCELB:              getBit(b[12], 3),
		CEEMS:              getBits(b[12], 1, 2),
		RDMD:               getBit(b[12], 0),
		KADFormat:          KADFormat(b[13]),
		ASDKCount:          binary.BigEndian.Uint16(b[14:16]),
		KADs:               kads,
	}, nil
}
