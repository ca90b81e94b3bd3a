// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tapesdiag dumps the data encryption interface of a SCSI tape drive.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/open-source-firmware/go-tape-encryption/pkg/drive"
)

func main() {
	spew.Config.Indent = "  "

	if len(os.Args) != 2 {
		log.Fatalf("Usage: %s <device>", os.Args[0])
	}

	d, err := drive.Open(os.Args[1])
	if err != nil {
		log.Fatalf("drive.Open: %v", err)
	}
	defer d.Close()

	fmt.Printf("===> DRIVE INFORMATION\n")
	id, err := d.Identify()
	if err != nil {
		log.Fatalf("drive.Identify: %v", err)
	}
	log.Printf("Drive identity: %s", id)
	ready, err := d.Ready()
	if err != nil {
		log.Printf("drive.Ready: %v", err)
	} else {
		log.Printf("Volume loaded: %v", ready)
	}
	spl, err := drive.SecurityProtocols(d)
	if err != nil {
		log.Fatalf("drive.SecurityProtocols: %v", err)
	}
	log.Printf("SecurityProtocols: %+v", spl)
	tde := false
	for _, p := range spl {
		if p == drive.SecurityProtocolTapeEncryption {
			tde = true
		}
	}
	if !tde {
		log.Printf("Drive does not announce the tape data encryption protocol, trying anyway")
	}
	crt, err := drive.Certificate(d)
	if err != nil {
		log.Printf("drive.Certificate: %v", err)
	} else {
		log.Printf("Drive certificate:")
		spew.Dump(crt)
	}
	fmt.Printf("\n")

	fmt.Printf("===> DATA ENCRYPTION CAPABILITIES\n")
	dec, err := drive.Capabilities(d)
	if err != nil {
		log.Printf("drive.Capabilities: %v", err)
	} else {
		spew.Dump(dec)
	}
	fmt.Printf("\n")

	fmt.Printf("===> DATA ENCRYPTION STATUS\n")
	des, err := drive.EncryptionStatus(d)
	if err != nil {
		log.Printf("drive.EncryptionStatus: %v", err)
	} else {
		spew.Dump(des)
	}
	fmt.Printf("\n")

	fmt.Printf("===> NEXT BLOCK ENCRYPTION STATUS\n")
	if !ready {
		log.Printf("No volume loaded, skipping")
	} else {
		nbes, err := drive.NextBlockStatus(d)
		if err != nil {
			log.Printf("drive.NextBlockStatus: %v", err)
		} else {
			spew.Dump(nbes)
		}
	}
	fmt.Printf("\n")

	fmt.Printf("===> DATA COMPRESSION\n")
	comp, err := drive.CompressionStatus(d)
	if err != nil {
		log.Printf("drive.CompressionStatus: %v", err)
	} else {
		spew.Dump(comp)
	}
}
