// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"reflect"
	"testing"
)

func TestParseNBES(t *testing.T) {
	// Positioned before an encrypted block written under external
	// encryption mode, with the algorithm's nonce carried as a KAD.
	data := mustDecode(t, "0021 0018"+
		"0000000000001234"+
		"05 01 02 00"+
		"02 00 0008 1122334455667788")
	n, err := ParseNBES(data)
	if err != nil {
		t.Fatalf("ParseNBES(% x) returned error: %v", data, err)
	}
	want := NBES{
		LogicalObjectNumber: 0x1234,
		CompressionStatus:   0,
		EncryptionStatus:    BlockStatusEncrypted,
		AlgorithmIndex:      1,
		EMES:                true,
		RDMDS:               false,
		KADFormat:           KADFormatUnspecified,
	}
	got := *n
	got.KADs = nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNBES(% x) = %+v; want %+v", data, got, want)
	}
	if len(n.KADs) != 1 || n.KADs[0].Type != KADTypeNonce || len(n.KADs[0].Descriptor) != 8 {
		t.Errorf("KADs = %+v; want one 8-byte nonce record", n.KADs)
	}
}

func TestParseNBESNoKADs(t *testing.T) {
	data := mustDecode(t, "0021 000c 00000000000003e8 35 02 01 02")
	n, err := ParseNBES(data)
	if err != nil {
		t.Fatalf("ParseNBES(% x) returned error: %v", data, err)
	}
	if n.LogicalObjectNumber != 1000 {
		t.Errorf("LogicalObjectNumber = %d; want 1000", n.LogicalObjectNumber)
	}
	if n.CompressionStatus != 3 || n.EncryptionStatus != BlockStatusEncrypted {
		t.Errorf("status = %d/%d; want 3/%d", n.CompressionStatus, n.EncryptionStatus, BlockStatusEncrypted)
	}
	if !n.RDMDS || n.EMES {
		t.Errorf("flags = EMES %v RDMDS %v; want EMES false RDMDS true", n.EMES, n.RDMDS)
	}
	if n.KADFormat != KADFormatASCIIName {
		t.Errorf("KADFormat = %v; want %v", n.KADFormat, KADFormatASCIIName)
	}
	if len(n.KADs) != 0 {
		t.Errorf("KADs = %+v; want none", n.KADs)
	}
}

func TestParseNBESMalformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{
			name: "DeclaredLengthOverrun",
			data: "0021 0040 0000000000001234 05 01 02 00",
		},
		{
			name: "ShorterThanFixedPrefix",
			data: "0021 0008 0000000000001234",
		},
		{
			name: "WrongPageCode",
			data: "0020 000c 0000000000001234 05 01 02 00",
		},
		{
			name: "KADOverrun",
			data: "0021 0010 0000000000001234 05 01 02 00 02 00 ffff",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := mustDecode(t, tc.data)
			if n, err := ParseNBES(data); err == nil {
				t.Errorf("ParseNBES(% x) = %+v; want error", data, n)
			}
		})
	}
}

func TestBlockStatusString(t *testing.T) {
	if got := BlockStatusString(BlockStatusNotEncrypted); got != "not encrypted" {
		t.Errorf("BlockStatusString(3) = %q; want %q", got, "not encrypted")
	}
	if got := BlockStatusString(0xc); got != "unknown(12)" {
		t.Errorf("BlockStatusString(0xc) = %q; want %q", got, "unknown(12)")
	}
}
