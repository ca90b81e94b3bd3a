// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"bytes"
	"strings"
	"testing"
)

func TestSDEMarshalBinary(t *testing.T) {
	key := mustDecode(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	testCases := []struct {
		name string
		in   SDE
		want string
	}{
		{
			// 32-byte key plus a 4-character key name: 56 bytes after
			// the header, 60 in total.
			name: "EnableWithKeyName",
			in: SDE{
				EncryptionMode: EncryptModeOn,
				DecryptionMode: DecryptModeMixed,
				AlgorithmIndex: 1,
				Key:            key,
				KeyName:        "TK01",
				KADFormat:      KADFormatASCIIName,
				RDMC:           RDMCDisabled,
				CKOD:           true,
			},
			want: "0010 0038" +
				"00 34 02 03 01 00 02" +
				"00000000000000" +
				"0020" +
				"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f" +
				"00 00 0004 544b3031",
		},
		{
			name: "EnableWithoutKeyName",
			in: SDE{
				EncryptionMode: EncryptModeOn,
				DecryptionMode: DecryptModeOn,
				AlgorithmIndex: 1,
				Key:            key,
			},
			want: "0010 0030" +
				"00 00 02 02 01 00 00" +
				"00000000000000" +
				"0020" +
				"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		},
		{
			// The zero value turns encryption off and discards the key.
			name: "Disable",
			in:   SDE{},
			want: "0010 0010 00 00 00 00 00 00 00 00000000000000 0000",
		},
		{
			name: "RawReadAllowed",
			in: SDE{
				DecryptionMode: DecryptModeRaw,
				RDMC:           RDMCEnabled,
			},
			want: "0010 0010 00 20 00 01 00 00 00 00000000000000 0000",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want := mustDecode(t, tc.want)
			got, err := tc.in.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary(%+v) returned error: %v", tc.in, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("MarshalBinary(%+v) =\n% x; want\n% x", tc.in, got, want)
			}
		})
	}
}

func TestSDEMarshalTooLong(t *testing.T) {
	big := make([]byte, 0x10000)
	testCases := []struct {
		name string
		in   SDE
	}{
		{name: "Key", in: SDE{Key: big}},
		{name: "KeyName", in: SDE{KeyName: strings.Repeat("A", 0x10000)}},
		{name: "Combined", in: SDE{Key: big[:0xffff], KeyName: strings.Repeat("A", 0xffff)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if b, err := tc.in.MarshalBinary(); err == nil {
				t.Errorf("MarshalBinary produced a %d-byte page; want error", len(b))
			}
		})
	}
}

func TestSDERoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		in   SDE
	}{
		{
			name: "Full",
			in: SDE{
				EncryptionMode: EncryptModeOn,
				DecryptionMode: DecryptModeMixed,
				AlgorithmIndex: 1,
				Key:            bytes.Repeat([]byte{0xaa}, 32),
				KeyName:        "BACKUP-2025-10",
				KADFormat:      KADFormatASCIIName,
				RDMC:           RDMCDisabled,
				CKOD:           true,
			},
		},
		{
			name: "NoKeyName",
			in: SDE{
				EncryptionMode: EncryptModeExternal,
				DecryptionMode: DecryptModeOn,
				AlgorithmIndex: 3,
				Key:            bytes.Repeat([]byte{0x55}, 16),
			},
		},
		{
			name: "Disable",
			in:   SDE{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.in.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary returned error: %v", err)
			}
			out, err := ParseSDE(b)
			if err != nil {
				t.Fatalf("ParseSDE(% x) returned error: %v", b, err)
			}
			if out.EncryptionMode != tc.in.EncryptionMode || out.DecryptionMode != tc.in.DecryptionMode ||
				out.AlgorithmIndex != tc.in.AlgorithmIndex || out.KADFormat != tc.in.KADFormat ||
				out.RDMC != tc.in.RDMC || out.CKOD != tc.in.CKOD || out.KeyName != tc.in.KeyName {
				t.Errorf("round trip = %+v; want %+v", out, tc.in)
			}
			if !bytes.Equal(out.Key, tc.in.Key) {
				t.Errorf("round trip key = % x; want % x", out.Key, tc.in.Key)
			}
		})
	}
}

func TestParseSDEMalformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{
			name: "UnsupportedKeyFormat",
			data: "0010 0010 00 00 00 00 00 01 00 00000000000000 0000",
		},
		{
			name: "KeyLengthOverrun",
			data: "0010 0010 00 00 00 00 00 00 00 00000000000000 0004",
		},
		{
			name: "ForeignKADType",
			data: "0010 0017 00 00 02 02 01 00 00 00000000000000 0000 01 00 0003 414243",
		},
		{
			name: "DuplicateKeyName",
			data: "0010 001a 00 00 02 02 01 00 00 00000000000000 0000 00 00 0001 41 00 00 0001 42",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := mustDecode(t, tc.data)
			if s, err := ParseSDE(data); err == nil {
				t.Errorf("ParseSDE(% x) = %+v; want error", data, s)
			}
		})
	}
}
