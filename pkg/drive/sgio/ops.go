// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Copyright 2021 Christian Svensson. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sgio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	SCSI_TEST_UNIT_READY = 0x00
	SCSI_INQUIRY         = 0x12
	SCSI_MODE_SENSE_6    = 0x1a
	SCSI_SECURITY_IN     = 0xa2
	SCSI_SECURITY_OUT    = 0xb5
)

// Peripheral device types reported by INQUIRY.
const (
	TypeDirectAccess     = 0x00
	TypeSequentialAccess = 0x01
	TypeMediumChanger    = 0x08
)

// SCSI INQUIRY response. Tape drives return the full 96 bytes of
// standard inquiry data; only the identity fields are picked out.
type InquiryResponse struct {
	Peripheral   byte // peripheral qualifier, device type
	_            byte
	Version      byte
	_            [5]byte
	VendorIdent  [8]byte
	ProductIdent [16]byte
	ProductRev   [4]byte
	_            [60]byte
}

// DeviceType returns the peripheral device type with the qualifier
// bits masked off.
func (inq InquiryResponse) DeviceType() byte {
	return inq.Peripheral & 0x1f
}

func (inq InquiryResponse) String() string {
	return fmt.Sprintf("Type=0x%x, Vendor=%s, Product=%s, Revision=%s",
		inq.DeviceType(),
		strings.TrimSpace(string(inq.VendorIdent[:])),
		strings.TrimSpace(string(inq.ProductIdent[:])),
		strings.TrimSpace(string(inq.ProductRev[:])))
}

// INQUIRY - Returns parsed inquiry data.
func SCSIInquiry(fd uintptr) (InquiryResponse, error) {
	var resp InquiryResponse

	respBuf := make([]byte, 96)

	cdb := CDB6{SCSI_INQUIRY}
	binary.BigEndian.PutUint16(cdb[3:], uint16(len(respBuf)))

	if err := SendCDB(fd, cdb[:], CDBFromDevice, &respBuf); err != nil {
		return resp, err
	}

	binary.Read(bytes.NewBuffer(respBuf), nativeEndian, &resp)

	return resp, nil
}

// TEST UNIT READY - succeeds once the drive has a volume loaded and is
// ready to move tape.
func SCSITestUnitReady(fd uintptr) error {
	cdb := CDB6{SCSI_TEST_UNIT_READY}
	return SendCDB(fd, cdb[:], CDBNone, nil)
}

// SCSI MODE SENSE(6) - Returns the raw response
func SCSIModeSense(fd uintptr, pageNum, subPageNum, pageControl uint8) ([]byte, error) {
	respBuf := make([]byte, 64)

	cdb := CDB6{SCSI_MODE_SENSE_6}
	cdb[2] = (pageControl << 6) | (pageNum & 0x3f)
	cdb[3] = subPageNum
	cdb[4] = uint8(len(respBuf))

	if err := SendCDB(fd, cdb[:], CDBFromDevice, &respBuf); err != nil {
		return respBuf, err
	}

	return respBuf, nil
}

// SCSI SECURITY IN. Tape drives take the allocation length in bytes,
// so INC_512 stays clear, unlike the 512-byte granularity that
// self-encrypting disks want.
func SCSISecurityIn(fd uintptr, proto uint8, sps uint16, resp *[]byte) error {
	cdb := CDB12{SCSI_SECURITY_IN}
	cdb[1] = proto
	cdb[2] = uint8((sps & 0xff00) >> 8)
	cdb[3] = uint8(sps & 0xff)
	binary.BigEndian.PutUint32(cdb[6:], uint32(len(*resp)))

	if err := SendCDB(fd, cdb[:], CDBFromDevice, resp); err != nil {
		return err
	}
	return nil
}

// SCSI SECURITY OUT. The transfer length is in bytes, matching
// SECURITY IN.
func SCSISecurityOut(fd uintptr, proto uint8, sps uint16, in []byte) error {
	cdb := CDB12{SCSI_SECURITY_OUT}
	cdb[1] = proto
	cdb[2] = uint8((sps & 0xff00) >> 8)
	cdb[3] = uint8(sps & 0xff)
	binary.BigEndian.PutUint32(cdb[6:], uint32(len(in)))

	if err := SendCDB(fd, cdb[:], CDBToDevice, &in); err != nil {
		return err
	}
	return nil
}
