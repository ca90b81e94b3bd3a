// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"bytes"
	"reflect"
	"testing"
)

// A status page as an LTO drive returns it with encryption enabled:
// all-I_T-nexus scope, AES-GCM at index 1, key instance 3, the volume
// already holding encrypted blocks, followed by the key name U-KAD and
// an 8-byte nonce record.
const desPageFixture = "0020 0029" +
	"42 02 03 01" +
	"00000003" +
	"09 02 0000" +
	"0000000000000000" +
	"00 00 0005 4d594b4559" +
	"02 00 0008 0102030405060708"

func TestParseDES(t *testing.T) {
	data := mustDecode(t, desPageFixture)
	d, err := ParseDES(data)
	if err != nil {
		t.Fatalf("ParseDES(% x) returned error: %v", data, err)
	}
	want := DES{
		ITNexusScope:       2,
		ParametersScope:    2,
		EncryptionMode:     EncryptModeOn,
		DecryptionMode:     DecryptModeMixed,
		AlgorithmIndex:     1,
		KeyInstanceCounter: 3,
		ParametersControl:  0,
		VCELB:              true,
		CEEMS:              0,
		RDMD:               true,
		KADFormat:          KADFormatASCIIName,
		ASDKCount:          0,
	}
	got := *d
	got.KADs = nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDES(% x) = %+v; want %+v", data, got, want)
	}
	if len(d.KADs) != 2 {
		t.Fatalf("ParseDES returned %d KADs; want 2", len(d.KADs))
	}
	if d.KADs[0].Type != KADTypeUKAD || !bytes.Equal(d.KADs[0].Descriptor, []byte("MYKEY")) {
		t.Errorf("KAD 0 = %+v; want U-KAD %q", d.KADs[0], "MYKEY")
	}
	if d.KADs[1].Type != KADTypeNonce || len(d.KADs[1].Descriptor) != 8 {
		t.Errorf("KAD 1 = %+v; want 8-byte nonce", d.KADs[1])
	}
}

func TestParseDESPaddedBuffer(t *testing.T) {
	// Pages are read into a fixed allocation; everything beyond the
	// declared length is padding and must not influence the result.
	page := mustDecode(t, desPageFixture)
	data := make([]byte, PageAllocation)
	copy(data, page)
	for i := len(page); i < 64; i++ {
		data[i] = 0xee
	}
	d, err := ParseDES(data)
	if err != nil {
		t.Fatalf("ParseDES returned error: %v", err)
	}
	if len(d.KADs) != 2 {
		t.Errorf("ParseDES returned %d KADs; want 2", len(d.KADs))
	}
}

func TestParseDESMalformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{
			// Declared length runs past the end of the buffer.
			name: "DeclaredLengthOverrun",
			data: "0020 ffff 42 02 03 01 00000003 09 02 0000 0000000000000000",
		},
		{
			name: "ShorterThanFixedPrefix",
			data: "0020 000a 42 02 03 01 00000003 09 02",
		},
		{
			name: "WrongPageCode",
			data: "0010 0014 42 02 03 01 00000003 09 02 0000 0000000000000000",
		},
		{
			// KAD record declares ten descriptor bytes, none present.
			name: "KADOverrun",
			data: "0020 0018 42 02 03 01 00000003 09 02 0000 0000000000000000 00 00 000a",
		},
		{
			name: "KADHeaderFragment",
			data: "0020 0016 42 02 03 01 00000003 09 02 0000 0000000000000000 00 00",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := mustDecode(t, tc.data)
			if d, err := ParseDES(data); err == nil {
				t.Errorf("ParseDES(% x) = %+v; want error", data, d)
			}
		})
	}
}
