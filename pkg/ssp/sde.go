// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/binary"
	"fmt"
)

const sdeFixedSize = 20

// RDMC selects the raw decryption mode control of the set page:
// whether the drive honors raw reads of encrypted blocks.
type RDMC uint8

const (
	RDMCDefault  RDMC = 0 // leave raw read handling at the algorithm default
	RDMCEnabled  RDMC = 2 // permit raw reads of encrypted blocks
	RDMCDisabled RDMC = 3 // refuse raw reads of encrypted blocks
)

func (r RDMC) String() string {
	switch r {
	case RDMCDefault:
		return "algorithm default"
	case RDMCEnabled:
		return "enabled"
	case RDMCDisabled:
		return "disabled"
	}
	return fmt.Sprintf("unknown(%d)", uint8(r))
}

// SDE holds the parameters serialized into a Set Data Encryption
// page. Key is the raw key material; KeyName, when non-empty, is
// carried behind the key as a single unauthenticated KAD record. The
// zero value disables encryption and decryption and discards any key
// held by the drive.
type SDE struct {
	EncryptionMode EncryptMode
	DecryptionMode DecryptMode
	AlgorithmIndex uint8
	Key            []byte
	KeyName        string
	KADFormat      KADFormat
	RDMC           RDMC
	CKOD           bool // clear key on demount
}

// MarshalBinary serializes the complete page: header, fixed fields,
// key and the optional key name record. The result is sized exactly
// and ready for SECURITY PROTOCOL OUT as-is. The SCOPE and LOCK
// subfields are always emitted as zero, CEEM as "no change" and the
// key format as plaintext.
func (s *SDE) MarshalBinary() ([]byte, error) {
	if len(s.Key) > 0xffff {
		return nil, fmt.Errorf("key of %d bytes exceeds the 16-bit key length field", len(s.Key))
	}
	if len(s.KeyName) > 0xffff {
		return nil, fmt.Errorf("key name of %d bytes exceeds the 16-bit KAD length field", len(s.KeyName))
	}
	total := sdeFixedSize + len(s.Key)
	if s.KeyName != "" {
		total += KADHeaderSize + len(s.KeyName)
	}
	if total-HeaderSize > 0xffff {
		return nil, fmt.Errorf("page of %d bytes exceeds the 16-bit page length field", total)
	}

	b := make([]byte, total)
	h := Header{PageCode: PageSetDataEncryption, Length: uint16(total - HeaderSize)}
	off := h.put(b)

	b[off] = 0 // scope and lock
	flags := putBits(0, 4, 2, uint8(s.RDMC))
	if s.CKOD {
		flags = putBits(flags, 2, 1, 1)
	}
	b[5] = flags
	b[6] = byte(s.EncryptionMode)
	b[7] = byte(s.DecryptionMode)
	b[8] = s.AlgorithmIndex
	b[9] = byte(KeyFormatPlaintext)
	b[10] = byte(s.KADFormat)
	binary.BigEndian.PutUint16(b[18:20], uint16(len(s.Key)))

	off = sdeFixedSize + copy(b[sdeFixedSize:], s.Key)
	if s.KeyName != "" {
		k := KAD{Type: KADTypeUKAD, Descriptor: []byte(s.KeyName)}
		k.marshalTo(b[off:])
	}
	return b, nil
}

// ParseSDE decodes a serialized Set Data Encryption page. Drives
// never return this page; the decoder exists so freshly built pages
// can be inspected and verified. Key aliases b.
func ParseSDE(b []byte) (*SDE, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	trailer, err := trailingRegion(b, h, PageSetDataEncryption, sdeFixedSize)
	if err != nil {
		return nil, fmt.Errorf("set data encryption: %v", err)
	}
	if KeyFormat(b[9]) != KeyFormatPlaintext {
		return nil, fmt.Errorf("set data encryption: unsupported key format 0x%02x", b[9])
	}
	keyLen := int(binary.BigEndian.Uint16(b[18:20]))
	if keyLen > len(trailer) {
		return nil, fmt.Errorf("set data encryption: key length %d exceeds the %d bytes after the fixed prefix", keyLen, len(trailer))
	}
	s := &SDE{
		EncryptionMode: EncryptMode(b[6]),
		DecryptionMode: DecryptMode(b[7]),
		AlgorithmIndex: b[8],
		Key:            trailer[:keyLen],
		KADFormat:      KADFormat(b[10]),
		RDMC:           RDMC(getBits(b[5], 4, 2)),
		CKOD:           getBit(b[5], 2),
	}
	kads, err := parseKADs(trailer[keyLen:])
	if err != nil {
		return nil, fmt.Errorf("set data encryption: %v", err)
	}
	for _, k := range kads {
		if k.Type != KADTypeUKAD {
			return nil, fmt.Errorf("set data encryption: unexpected %s record", k.Type)
		}
		if s.KeyName != "" {
			return nil, fmt.Errorf("set data encryption: multiple key name records")
		}
		s.KeyName = string(k.Descriptor)
	}
	return s, nil
}
