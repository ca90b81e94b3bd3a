// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"encoding/hex"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("Failed to decode test data: %v", err)
	}
	return data
}

func TestParseHeader(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    Header
		total   int
		wantErr bool
	}{
		{
			name:  "StatusPage",
			data:  "0020 0029",
			want:  Header{PageCode: 0x0020, Length: 0x29},
			total: 45,
		},
		{
			name:  "EmptyTrailer",
			data:  "0010 0010",
			want:  Header{PageCode: 0x0010, Length: 16},
			total: 20,
		},
		{
			name:  "MaximumLength",
			data:  "0021 ffff",
			want:  Header{PageCode: 0x0021, Length: 0xffff},
			total: 65539,
		},
		{
			name:    "TooShort",
			data:    "00 20 00",
			wantErr: true,
		},
		{
			name:    "Empty",
			data:    "",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := mustDecode(t, tc.data)
			h, err := ParseHeader(data)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseHeader(% x) = %+v; want error", data, h)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHeader(% x) returned error: %v", data, err)
			}
			if h != tc.want {
				t.Errorf("ParseHeader(% x) = %+v; want %+v", data, h, tc.want)
			}
			if h.TotalLength() != tc.total {
				t.Errorf("TotalLength() = %d; want %d", h.TotalLength(), tc.total)
			}
		})
	}
}

func TestBitHelpers(t *testing.T) {
	testCases := []struct {
		name       string
		b          byte
		off, width uint
		want       uint8
	}{
		{name: "LowBits", b: 0x42, off: 0, width: 3, want: 2},
		{name: "HighBits", b: 0x42, off: 5, width: 3, want: 2},
		{name: "MiddlePair", b: 0x34, off: 4, width: 2, want: 3},
		{name: "SingleBit", b: 0x08, off: 3, width: 1, want: 1},
		{name: "FullByte", b: 0xa5, off: 0, width: 8, want: 0xa5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := getBits(tc.b, tc.off, tc.width); got != tc.want {
				t.Errorf("getBits(0x%02x, %d, %d) = %d; want %d", tc.b, tc.off, tc.width, got, tc.want)
			}
			// Writing the extracted value back into a zero byte and
			// re-extracting it must be lossless.
			if got := getBits(putBits(0, tc.off, tc.width, tc.want), tc.off, tc.width); got != tc.want {
				t.Errorf("putBits round trip = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestPutBitsPreservesNeighbors(t *testing.T) {
	testCases := []struct {
		name       string
		b          byte
		off, width uint
		v          uint8
		want       byte
	}{
		{name: "ClearMiddle", b: 0xff, off: 4, width: 2, v: 0, want: 0xcf},
		{name: "SetMiddle", b: 0x00, off: 4, width: 2, v: 3, want: 0x30},
		{name: "MaskOverlong", b: 0x00, off: 2, width: 1, v: 0xff, want: 0x04},
		{name: "KeepLow", b: 0x07, off: 5, width: 3, v: 2, want: 0x47},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := putBits(tc.b, tc.off, tc.width, tc.v); got != tc.want {
				t.Errorf("putBits(0x%02x, %d, %d, 0x%02x) = 0x%02x; want 0x%02x", tc.b, tc.off, tc.width, tc.v, got, tc.want)
			}
		})
	}
}

func TestModeStrings(t *testing.T) {
	if got := EncryptModeOn.String(); got != "on" {
		t.Errorf("EncryptModeOn.String() = %q; want %q", got, "on")
	}
	if got := DecryptModeMixed.String(); got != "mixed" {
		t.Errorf("DecryptModeMixed.String() = %q; want %q", got, "mixed")
	}
	if got := EncryptMode(9).String(); got != "unknown(9)" {
		t.Errorf("EncryptMode(9).String() = %q; want %q", got, "unknown(9)")
	}
	if got := KADFormatASCIIName.String(); got != "ASCII key name" {
		t.Errorf("KADFormatASCIIName.String() = %q; want %q", got, "ASCII key name")
	}
}
