// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/binary"
	"fmt"
)

// KADHeaderSize is the size of the header preceding each
// key-associated data descriptor.
const KADHeaderSize = 4

// KADType identifies what a key-associated data record carries.
type KADType uint8

const (
	KADTypeUKAD  KADType = 0 // unauthenticated key-associated data
	KADTypeAKAD  KADType = 1 // authenticated key-associated data
	KADTypeNonce KADType = 2 // nonce value
	KADTypeMKAD  KADType = 3 // metadata key-associated data
	KADTypeWKKAD KADType = 4 // wrapped key key-associated data
)

func (t KADType) String() string {
	switch t {
	case KADTypeUKAD:
		return "U-KAD"
	case KADTypeAKAD:
		return "A-KAD"
	case KADTypeNonce:
		return "nonce"
	case KADTypeMKAD:
		return "M-KAD"
	case KADTypeWKKAD:
		return "WK-KAD"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// KAD is one key-associated data record. Records trail the status,
// next-block and set pages packed back to back, each a 4-byte header
// followed by its descriptor bytes, with no count or terminator; the
// enclosing page's declared length bounds the run. Descriptor aliases
// the buffer the record was parsed from.
type KAD struct {
	Type       KADType
	Flags      byte
	Descriptor []byte
}

// Authenticated returns the AUTHKAD subfield of Flags, reporting
// whether the record's descriptor is covered by the integrity
// mechanism of the recorded blocks.
func (k KAD) Authenticated() uint8 {
	return getBits(k.Flags, 0, 3)
}

func (k KAD) size() int {
	return KADHeaderSize + len(k.Descriptor)
}

func (k KAD) marshalTo(b []byte) int {
	b[0] = byte(k.Type)
	b[1] = k.Flags
	binary.BigEndian.PutUint16(b[2:4], uint16(len(k.Descriptor)))
	copy(b[KADHeaderSize:], k.Descriptor)
	return k.size()
}

// parseKADs walks a packed run of key-associated data records
// occupying exactly b. A record that declares more descriptor bytes
// than remain, or a leftover fragment too short to hold a header, is
// an error: the walk never reads past the region it was given.
func parseKADs(b []byte) ([]KAD, error) {
	var kads []KAD
	for off := 0; off < len(b); {
		if len(b)-off < KADHeaderSize {
			return nil, fmt.Errorf("truncated KAD header at offset %d: only %d bytes remain", off, len(b)-off)
		}
		n := int(binary.BigEndian.Uint16(b[off+2 : off+4]))
		end := off + KADHeaderSize + n
		if end > len(b) {
			return nil, fmt.Errorf("KAD record at offset %d declares %d descriptor bytes but only %d remain", off, n, len(b)-off-KADHeaderSize)
		}
		kads = append(kads, KAD{
			Type:       KADType(b[off]),
			Flags:      b[off+1],
			Descriptor: b[off+KADHeaderSize : end],
		})
		off = end
	}
	return kads, nil
}
