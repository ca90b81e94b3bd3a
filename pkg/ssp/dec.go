// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/binary"
	"fmt"
)

const (
	decFixedSize            = 20
	algorithmDescriptorSize = 24
)

// DEC is the decoded Device Encryption Capabilities page.
type DEC struct {
	ExternalDECC           uint8
	ConfigurationPrevented uint8
	Algorithms             []AlgorithmDescriptor
}

// AlgorithmDescriptor describes one encryption algorithm a drive
// offers. AlgorithmIndex is the handle passed back when enabling
// encryption.
type AlgorithmDescriptor struct {
	AlgorithmIndex uint8

	AVFMV             bool // algorithm valid for mounted volume
	SDKCapable        bool
	MACCapable        bool
	DELBCapable       bool
	DecryptCapability uint8
	EncryptCapability uint8

	AVFCP            uint8
	NonceCapability  uint8
	KADFormatCapable bool
	VCELBCapable     bool
	UKADFixed        bool
	AKADFixed        bool

	MaximumUKADLength uint16
	MaximumAKADLength uint16
	KeyLength         uint16

	DKADCapability uint8
	EEMCCapability uint8
	RDMCCapability uint8
	EAREM          bool

	MaximumEEDKCount uint8
	MSDKCount        uint16
	MaximumEEDKSize  uint16

	SecurityAlgorithmCode uint32
}

// Encrypt/decrypt capability values of an algorithm descriptor.
const (
	CapabilityNotReported uint8 = 0
	CapabilityNo          uint8 = 1
	CapabilityHardware    uint8 = 2
	CapabilitySoftware    uint8 = 3
)

// CapabilityString names an encrypt or decrypt capability value.
func CapabilityString(c uint8) string {
	switch c {
	case CapabilityNotReported:
		return "not reported"
	case CapabilityNo:
		return "no"
	case CapabilityHardware:
		return "yes (hardware)"
	case CapabilitySoftware:
		return "yes (software)"
	}
	return fmt.Sprintf("unknown(%d)", c)
}

// ParseDEC decodes a Device Encryption Capabilities page, including
// the run of 24-byte algorithm descriptors after the fixed prefix.
func ParseDEC(b []byte) (*DEC, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	trailer, err := trailingRegion(b, h, PageDeviceEncryptionCapabilities, decFixedSize)
	if err != nil {
		return nil, fmt.Errorf("device encryption capabilities: %v", err)
	}
	if len(trailer)%algorithmDescriptorSize != 0 {
		return nil, fmt.Errorf("device encryption capabilities: %d trailing bytes is not a whole number of %d-byte algorithm descriptors", len(trailer), algorithmDescriptorSize)
	}
	d := &DEC{
		ExternalDECC:           getBits(b[4], 2, 2),
		ConfigurationPrevented: getBits(b[4], 0, 2),
	}
	for off := 0; off < len(trailer); off += algorithmDescriptorSize {
		d.Algorithms = append(d.Algorithms, parseAlgorithmDescriptor(trailer[off:off+algorithmDescriptorSize]))
	}
	return d, nil
}

func parseAlgorithmDescriptor(b []byte) AlgorithmDescriptor {
	return AlgorithmDescriptor{
		AlgorithmIndex: b[0],

		AVFMV:             getBit(b[4], 7),
		SDKCapable:        getBit(b[4], 6),
		MACCapable:        getBit(b[4], 5),
		DELBCapable:       getBit(b[4], 4),
		DecryptCapability: getBits(b[4], 2, 2),
		EncryptCapability: getBits(b[4], 0, 2),

		AVFCP:            getBits(b[5], 6, 2),
		NonceCapability:  getBits(b[5], 4, 2),
		KADFormatCapable: getBit(b[5], 3),
		VCELBCapable:     getBit(b[5], 2),
		UKADFixed:        getBit(b[5], 1),
		AKADFixed:        getBit(b[5], 0),

		MaximumUKADLength: binary.BigEndian.Uint16(b[6:8]),
		MaximumAKADLength: binary.BigEndian.Uint16(b[8:10]),
		KeyLength:         binary.BigEndian.Uint16(b[10:12]),

		DKADCapability: getBits(b[12], 6, 2),
		EEMCCapability: getBits(b[12], 4, 2),
		RDMCCapability: getBits(b[12], 1, 3),
		EAREM:          getBit(b[12], 0),

		MaximumEEDKCount: getBits(b[13], 0, 4),
		MSDKCount:        binary.BigEndian.Uint16(b[14:16]),
		MaximumEEDKSize:  binary.BigEndian.Uint16(b[16:18]),

		SecurityAlgorithmCode: binary.BigEndian.Uint32(b[20:24]),
	}
}
