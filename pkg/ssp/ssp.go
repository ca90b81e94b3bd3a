// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Implements the SSC-4 Tape Data Encryption pages carried by the SCSI
// SECURITY PROTOCOL IN and OUT commands (security protocol 0x20).
package ssp

import (
	"encoding/binary"
	"fmt"
)

// Page codes within the tape data encryption security protocol. The
// capabilities, status and next-block pages are SECURITY PROTOCOL IN;
// the set page is SECURITY PROTOCOL OUT and shares its code with the
// capabilities page.
const (
	PageDeviceEncryptionCapabilities uint16 = 0x0010
	PageDeviceEncryptionStatus       uint16 = 0x0020
	PageNextBlockEncryptionStatus    uint16 = 0x0021
	PageSetDataEncryption            uint16 = 0x0010
)

// PageAllocation is the transfer size used when reading pages from a
// drive. Every page defined by the protocol fits well within it.
const PageAllocation = 8192

// HeaderSize is the size of the header common to all pages.
const HeaderSize = 4

// Header is the 4-byte header that starts every page. Length counts
// the bytes that follow the header, so a whole page occupies Length+4
// bytes.
type Header struct {
	PageCode uint16
	Length   uint16
}

// ParseHeader decodes the common header from the start of a page
// buffer.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("page of %d bytes is shorter than the %d-byte header", len(b), HeaderSize)
	}
	return Header{
		PageCode: binary.BigEndian.Uint16(b[0:2]),
		Length:   binary.BigEndian.Uint16(b[2:4]),
	}, nil
}

// TotalLength returns the size of the whole page, header included.
func (h Header) TotalLength() int {
	return int(h.Length) + HeaderSize
}

func (h Header) put(b []byte) int {
	binary.BigEndian.PutUint16(b[0:2], h.PageCode)
	binary.BigEndian.PutUint16(b[2:4], h.Length)
	return HeaderSize
}

// trailingRegion checks a page's declared length against the true
// buffer size and the page type's fixed prefix, and returns the
// variable region between prefix and declared end. Lengths come from
// the device and are not trusted; every walk over a trailing region
// starts from the slice returned here.
func trailingRegion(b []byte, h Header, code uint16, fixed int) ([]byte, error) {
	if h.PageCode != code {
		return nil, fmt.Errorf("page code 0x%04x, want 0x%04x", h.PageCode, code)
	}
	total := h.TotalLength()
	if total > len(b) {
		return nil, fmt.Errorf("page declares %d bytes but the buffer holds %d", total, len(b))
	}
	if total < fixed {
		return nil, fmt.Errorf("page of %d bytes is shorter than its %d-byte fixed prefix", total, fixed)
	}
	return b[fixed:total], nil
}

// getBits extracts the width-bit field at bit offset off of b.
func getBits(b byte, off, width uint) uint8 {
	return (b >> off) & (1<<width - 1)
}

// putBits merges v, masked to width bits, into b at bit offset off.
func putBits(b byte, off, width uint, v uint8) byte {
	mask := byte(1<<width-1) << off
	return b&^mask | v<<off&mask
}

func getBit(b byte, off uint) bool {
	return getBits(b, off, 1) != 0
}

// EncryptMode is the ENCRYPTION MODE field of the status and set
// pages.
type EncryptMode uint8

const (
	EncryptModeOff      EncryptMode = 0
	EncryptModeExternal EncryptMode = 1
	EncryptModeOn       EncryptMode = 2
)

func (m EncryptMode) String() string {
	switch m {
	case EncryptModeOff:
		return "off"
	case EncryptModeExternal:
		return "external"
	case EncryptModeOn:
		return "on"
	}
	return fmt.Sprintf("unknown(%d)", uint8(m))
}

// DecryptMode is the DECRYPTION MODE field of the status and set
// pages.
type DecryptMode uint8

const (
	DecryptModeOff   DecryptMode = 0
	DecryptModeRaw   DecryptMode = 1
	DecryptModeOn    DecryptMode = 2
	DecryptModeMixed DecryptMode = 3
)

func (m DecryptMode) String() string {
	switch m {
	case DecryptModeOff:
		return "off"
	case DecryptModeRaw:
		return "raw"
	case DecryptModeOn:
		return "on"
	case DecryptModeMixed:
		return "mixed"
	}
	return fmt.Sprintf("unknown(%d)", uint8(m))
}

// KADFormat is the KAD FORMAT field describing how key-associated data
// descriptors are encoded.
type KADFormat uint8

const (
	KADFormatUnspecified KADFormat = 0
	KADFormatBinaryName  KADFormat = 1
	KADFormatASCIIName   KADFormat = 2
)

func (f KADFormat) String() string {
	switch f {
	case KADFormatUnspecified:
		return "unspecified"
	case KADFormatBinaryName:
		return "binary key name"
	case KADFormatASCIIName:
		return "ASCII key name"
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// KeyFormat is the KEY FORMAT field of the set page. Plaintext is the
// only format emitted here: wrapped and encrypted key formats need key
// server infrastructure this package does not speak to.
type KeyFormat uint8

const KeyFormatPlaintext KeyFormat = 0
