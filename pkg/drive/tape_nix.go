// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"errors"
	"runtime"
	"strings"

	"github.com/open-source-firmware/go-tape-encryption/pkg/drive/sgio"
	"github.com/open-source-firmware/go-tape-encryption/pkg/sense"
)

type tapeDrive struct {
	fd FdIntf
}

func (d *tapeDrive) IFRecv(proto SecurityProtocol, sps uint16, data *[]byte) error {
	err := sgio.SCSISecurityIn(d.fd.Fd(), uint8(proto), sps, data)
	runtime.KeepAlive(d.fd)
	return err
}

func (d *tapeDrive) IFSend(proto SecurityProtocol, sps uint16, data []byte) error {
	err := sgio.SCSISecurityOut(d.fd.Fd(), uint8(proto), sps, data)
	runtime.KeepAlive(d.fd)
	return err
}

func (d *tapeDrive) Identify() (*Identity, error) {
	id, err := sgio.SCSIInquiry(d.fd.Fd())
	runtime.KeepAlive(d.fd)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Vendor:   strings.TrimSpace(string(id.VendorIdent[:])),
		Model:    strings.TrimSpace(string(id.ProductIdent[:])),
		Firmware: strings.TrimSpace(string(id.ProductRev[:])),
	}, nil
}

// Ready reports whether the drive has a volume loaded and ready. NOT
// READY sense is a state here, not an error.
func (d *tapeDrive) Ready() (bool, error) {
	err := sgio.SCSITestUnitReady(d.fd.Fd())
	runtime.KeepAlive(d.fd)
	if err == nil {
		return true, nil
	}
	var se *sgio.SenseError
	if errors.As(err, &se) && se.Sense.Key == sense.NotReady {
		return false, nil
	}
	return false, err
}

func (d *tapeDrive) ModeSense(page, subPage, control uint8) ([]byte, error) {
	raw, err := sgio.SCSIModeSense(d.fd.Fd(), page, subPage, control)
	runtime.KeepAlive(d.fd)
	return raw, err
}

func (d *tapeDrive) Close() error {
	return d.fd.Close()
}

func TapeDrive(fd FdIntf) *tapeDrive {
	// Save the full object reference to avoid the underlying File-like object
	// to be GC'd
	return &tapeDrive{fd: fd}
}

func isTape(fd FdIntf) bool {
	id, err := sgio.SCSIInquiry(fd.Fd())
	return err == nil && id.DeviceType() == sgio.TypeSequentialAccess
}
