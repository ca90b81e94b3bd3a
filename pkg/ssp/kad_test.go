// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssp

import (
	"bytes"
	"testing"
)

func TestParseKADs(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    []KAD
		wantErr bool
	}{
		{
			name: "Empty",
			data: "",
			want: nil,
		},
		{
			name: "SingleKeyName",
			data: "00 00 0006 4d594b455931",
			want: []KAD{
				{Type: KADTypeUKAD, Descriptor: []byte("MYKEY1")},
			},
		},
		{
			name: "BackToBackRecords",
			data: "00 00 0006 4d594b455931  01 01 0003 414243",
			want: []KAD{
				{Type: KADTypeUKAD, Descriptor: []byte("MYKEY1")},
				{Type: KADTypeAKAD, Flags: 0x01, Descriptor: []byte("ABC")},
			},
		},
		{
			name: "EmptyDescriptor",
			data: "03 00 0000",
			want: []KAD{
				{Type: KADTypeMKAD, Descriptor: []byte{}},
			},
		},
		{
			name:    "DescriptorOverrun",
			data:    "00 00 0005 4142",
			wantErr: true,
		},
		{
			name:    "TruncatedSecondHeader",
			data:    "00 00 0001 41  02 00",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := mustDecode(t, tc.data)
			kads, err := parseKADs(data)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseKADs(% x) = %+v; want error", data, kads)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseKADs(% x) returned error: %v", data, err)
			}
			if len(kads) != len(tc.want) {
				t.Fatalf("parseKADs(% x) returned %d records; want %d", data, len(kads), len(tc.want))
			}
			for i := range kads {
				if kads[i].Type != tc.want[i].Type || kads[i].Flags != tc.want[i].Flags || !bytes.Equal(kads[i].Descriptor, tc.want[i].Descriptor) {
					t.Errorf("record %d = %+v; want %+v", i, kads[i], tc.want[i])
				}
			}
		})
	}
}

func TestKADDescriptorAliasesBuffer(t *testing.T) {
	data := mustDecode(t, "00 00 0003 414243")
	kads, err := parseKADs(data)
	if err != nil {
		t.Fatalf("parseKADs returned error: %v", err)
	}
	data[4] = 'Z'
	if got := string(kads[0].Descriptor); got != "ZBC" {
		t.Errorf("descriptor after buffer edit = %q; want %q", got, "ZBC")
	}
}

func TestKADAuthenticated(t *testing.T) {
	k := KAD{Type: KADTypeAKAD, Flags: 0xfd}
	if got := k.Authenticated(); got != 5 {
		t.Errorf("Authenticated() = %d; want 5", got)
	}
}

func TestKADMarshalRoundTrip(t *testing.T) {
	in := KAD{Type: KADTypeAKAD, Flags: 0x01, Descriptor: []byte("SOME KEY METADATA")}
	buf := make([]byte, in.size())
	if n := in.marshalTo(buf); n != len(buf) {
		t.Fatalf("marshalTo wrote %d bytes; want %d", n, len(buf))
	}
	out, err := parseKADs(buf)
	if err != nil {
		t.Fatalf("parseKADs returned error: %v", err)
	}
	if len(out) != 1 || out[0].Type != in.Type || out[0].Flags != in.Flags || !bytes.Equal(out[0].Descriptor, in.Descriptor) {
		t.Errorf("round trip = %+v; want %+v", out, in)
	}
}
