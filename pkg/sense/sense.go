// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Decodes the sense data SCSI devices return with CHECK CONDITION
// status. Fixed format sense (SPC response codes 0x70 and 0x71) is
// decoded in full; descriptor format (0x72 and 0x73) yields the sense
// key and the additional sense code pair.
package sense

import (
	"encoding/binary"
	"fmt"
)

// MaximumSize is the largest sense buffer a device can return.
const MaximumSize = 252

const fixedSize = 18

// Key is the sense key, the broad classification of what went wrong.
type Key uint8

const (
	NoSense        Key = 0x0
	RecoveredError Key = 0x1
	NotReady       Key = 0x2
	MediumError    Key = 0x3
	HardwareError  Key = 0x4
	IllegalRequest Key = 0x5
	UnitAttention  Key = 0x6
	DataProtect    Key = 0x7
	BlankCheck     Key = 0x8
	VendorSpecific Key = 0x9
	CopyAborted    Key = 0xa
	AbortedCommand Key = 0xb
	VolumeOverflow Key = 0xd
	Miscompare     Key = 0xe
	Completed      Key = 0xf
)

func (k Key) String() string {
	switch k {
	case NoSense:
		return "no sense"
	case RecoveredError:
		return "recovered error"
	case NotReady:
		return "not ready"
	case MediumError:
		return "medium error"
	case HardwareError:
		return "hardware error"
	case IllegalRequest:
		return "illegal request"
	case UnitAttention:
		return "unit attention"
	case DataProtect:
		return "data protect"
	case BlankCheck:
		return "blank check"
	case VendorSpecific:
		return "vendor specific"
	case CopyAborted:
		return "copy aborted"
	case AbortedCommand:
		return "aborted command"
	case VolumeOverflow:
		return "volume overflow"
	case Miscompare:
		return "miscompare"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("reserved(0x%x)", uint8(k))
}

// Data is a decoded sense buffer.
type Data struct {
	ResponseCode uint8
	Deferred     bool
	Valid        bool // the Information field is defined

	Filemark bool
	EOM      bool
	ILI      bool // incorrect length indicator
	Overflow bool // sense data overflow
	Key      Key

	Information     uint32
	CommandSpecific uint32
	ASC             uint8
	ASCQ            uint8
	FRU             uint8
	KeySpecific     [3]byte

	// Additional holds the vendor or command specific bytes past the
	// fixed format portion, aliasing the parsed buffer.
	Additional []byte
}

// Parse decodes a raw sense buffer. The declared additional length is
// clamped to the buffer so a device overstating it cannot push the
// decoder out of bounds.
func Parse(b []byte) (*Data, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty sense buffer")
	}
	code := b[0] & 0x7f
	switch code {
	case 0x70, 0x71:
		if len(b) < fixedSize {
			return nil, fmt.Errorf("fixed format sense of %d bytes is shorter than %d", len(b), fixedSize)
		}
		d := &Data{
			ResponseCode:    code,
			Deferred:        code == 0x71,
			Valid:           b[0]&0x80 > 0,
			Filemark:        b[2]&0x80 > 0,
			EOM:             b[2]&0x40 > 0,
			ILI:             b[2]&0x20 > 0,
			Overflow:        b[2]&0x10 > 0,
			Key:             Key(b[2] & 0x0f),
			Information:     binary.BigEndian.Uint32(b[3:7]),
			CommandSpecific: binary.BigEndian.Uint32(b[8:12]),
			ASC:             b[12],
			ASCQ:            b[13],
			FRU:             b[14],
		}
		copy(d.KeySpecific[:], b[15:18])
		if n := int(b[7]) - 10; n > 0 {
			if n > len(b)-fixedSize {
				n = len(b) - fixedSize
			}
			d.Additional = b[fixedSize : fixedSize+n]
		}
		return d, nil
	case 0x72, 0x73:
		if len(b) < 8 {
			return nil, fmt.Errorf("descriptor format sense of %d bytes is shorter than 8", len(b))
		}
		return &Data{
			ResponseCode: code,
			Deferred:     code == 0x73,
			Key:          Key(b[1] & 0x0f),
			ASC:          b[2],
			ASCQ:         b[3],
		}, nil
	}
	return nil, fmt.Errorf("unrecognized sense response code 0x%02x", b[0])
}

func (d *Data) String() string {
	s := fmt.Sprintf("%s (0x%x), %s", d.Key, uint8(d.Key), Description(d.ASC, d.ASCQ))
	if d.Deferred {
		s += " (deferred)"
	}
	return s
}

// Description returns the text for an additional sense code pair,
// falling back to the raw pair when it is not recognized.
func Description(asc, ascq uint8) string {
	if s, ok := ascTable[uint16(asc)<<8|uint16(ascq)]; ok {
		return s
	}
	return fmt.Sprintf("unrecognized additional sense 0x%02x/0x%02x", asc, ascq)
}

// The additional sense code pairs a tape drive is likely to raise,
// from the SPC and SSC assignments.
var ascTable = map[uint16]string{
	0x0000: "no additional sense information",
	0x0001: "filemark detected",
	0x0002: "end of partition/medium detected",
	0x0004: "beginning of partition/medium detected",
	0x0400: "logical unit not ready, cause not reportable",
	0x0401: "logical unit is in process of becoming ready",
	0x0402: "logical unit not ready, initializing command required",
	0x0c00: "write error",
	0x1100: "unrecovered read error",
	0x2000: "invalid command operation code",
	0x2400: "invalid field in CDB",
	0x2500: "logical unit not supported",
	0x2600: "invalid field in parameter list",
	0x2601: "parameter not supported",
	0x2602: "parameter value invalid",
	0x2610: "data decryption key fail limit reached",
	0x2611: "incomplete key-associated data set",
	0x2612: "vendor specific key reference not found",
	0x2700: "write protected",
	0x2800: "not ready to ready change, medium may have changed",
	0x2900: "power on, reset, or bus device reset occurred",
	0x2a11: "data encryption parameters changed by another i_t nexus",
	0x2a12: "data encryption parameters changed by vendor specific event",
	0x2a13: "data encryption key instance counter has changed",
	0x3000: "incompatible medium installed",
	0x3002: "cannot read medium, incompatible format",
	0x3a00: "medium not present",
	0x3b00: "sequential positioning error",
	0x5300: "media load or eject failed",
	0x5508: "maximum number of supplemental decryption keys exceeded",
	0x7400: "security error",
	0x7401: "unable to decrypt data",
	0x7402: "unencrypted data encountered while decrypting",
	0x7403: "incorrect data encryption key",
	0x7404: "cryptographic integrity validation failed",
	0x7405: "error decrypting data",
	0x7408: "digital signature validation failure",
	0x7409: "encryption mode mismatch on read",
	0x740a: "encrypted block not raw read enabled while decrypting",
	0x740b: "incorrect encryption parameters",
	0x7421: "data encryption configuration prevented",
}
