package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/open-source-firmware/go-tape-encryption/pkg/drive"
	"github.com/open-source-firmware/go-tape-encryption/pkg/drive/sgio"
	"github.com/open-source-firmware/go-tape-encryption/pkg/sense"
	"github.com/open-source-firmware/go-tape-encryption/pkg/ssp"
)

var (
	outputFmt = flag.String("output", "table", "Output format; one of [table, json, openmetrics]")
	noHeader  = flag.Bool("no-header", false, "Supress the header in table format output")
)

type DeviceState struct {
	Device       string
	Identity     *drive.Identity
	Ready        bool
	Status       *ssp.DES           `json:",omitempty"`
	Capabilities *ssp.DEC           `json:",omitempty"`
	Compression  *drive.Compression `json:",omitempty"`
}

type Devices []DeviceState

// isBaseTapeName matches the primary scsi_tape entries (st0, st1, ..)
// and rejects the mode variants (st0a, st0l, st0m) and the
// non-rewind aliases (nst0, ..) of the same drives.
func isBaseTapeName(s string) bool {
	if len(s) < 3 || s[:2] != "st" {
		return false
	}
	for _, r := range s[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// notSupported reports whether err is the drive rejecting a command
// as unsupported rather than failing it.
func notSupported(err error) bool {
	var se *sgio.SenseError
	if errors.As(err, &se) && se.Sense != nil {
		return se.Sense.Key == sense.IllegalRequest
	}
	return false
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("The following state flags might be shown:")
		fmt.Println("  E - Encryption is enabled")
		fmt.Println("  D - Decryption is enabled")
		fmt.Println("  V - The loaded volume contains encrypted blocks")
		fmt.Println("  R - Raw reads of encrypted blocks are disabled")
		fmt.Println("  C - Compression is enabled")
		fmt.Println()
	}
	flag.Parse()

	systape, err := ioutil.ReadDir("/sys/class/scsi_tape/")
	if err != nil {
		log.Printf("Failed to enumerate tape devices: %v", err)
		return
	}

	var state Devices

	for _, fi := range systape {
		devname := fi.Name()
		if !isBaseTapeName(devname) {
			continue
		}
		// Prefer the non-rewind node so that probing does not move
		// the tape position.
		devpath := filepath.Join("/dev", "n"+devname)
		if _, err := os.Stat(devpath); os.IsNotExist(err) {
			devpath = filepath.Join("/dev", devname)
			if _, err := os.Stat(devpath); os.IsNotExist(err) {
				log.Printf("Failed to find device node for %s", devname)
				continue
			}
		}

		d, err := drive.Open(devpath)
		if err != nil {
			log.Printf("drive.Open(%s): %v", devpath, err)
			continue
		}
		defer d.Close()
		identity, err := d.Identify()
		if err != nil {
			log.Printf("drive.Identify(%s): %v", devpath, err)
			continue
		}
		ready, err := d.Ready()
		if err != nil {
			log.Printf("drive.Ready(%s): %v", devpath, err)
		}
		des, err := drive.EncryptionStatus(d)
		if err != nil {
			if !notSupported(err) {
				log.Printf("drive.EncryptionStatus(%s): %v", devpath, err)
			}
			des = nil
		}
		dec, err := drive.Capabilities(d)
		if err != nil {
			if !notSupported(err) {
				log.Printf("drive.Capabilities(%s): %v", devpath, err)
			}
			dec = nil
		}
		comp, err := drive.CompressionStatus(d)
		if err != nil {
			if err != drive.ErrNotSupported && !notSupported(err) {
				log.Printf("drive.CompressionStatus(%s): %v", devpath, err)
			}
			comp = nil
		}
		state = append(state, DeviceState{
			Device:       devpath,
			Identity:     identity,
			Ready:        ready,
			Status:       des,
			Capabilities: dec,
			Compression:  comp,
		})
	}

	if *outputFmt == "json" {
		outputJSON(state)
	} else if *outputFmt == "openmetrics" {
		outputMetrics(state)
	} else if *outputFmt == "table" {
		outputTable(state)
	} else {
		fmt.Printf("Unsupported output format %q\n", *outputFmt)
		flag.Usage()
		os.Exit(2)
	}
}

func outputJSON(state Devices) {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}
	os.Stdout.Write(b)
}

func outputTable(state Devices) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if *noHeader == false {
		fmt.Fprintf(w, "DEVICE\tVENDOR\tMODEL\tFIRMWARE\tREADY\tENC\tDEC\tALG\tSTATE\n")
	}
	for _, s := range state {
		enc, dec, alg := "-", "-", "-"
		st := ""
		if s.Status != nil {
			enc = s.Status.EncryptionMode.String()
			dec = s.Status.DecryptionMode.String()
			alg = fmt.Sprintf("%d", s.Status.AlgorithmIndex)
			if s.Status.EncryptionMode == ssp.EncryptModeOn {
				st += "E"
			}
			if s.Status.DecryptionMode != ssp.DecryptModeOff {
				st += "D"
			}
			if s.Status.VCELB {
				st += "V"
			}
			if s.Status.RDMD {
				st += "R"
			}
		}
		if s.Compression != nil && s.Compression.Enabled {
			st += "C"
		}
		if st == "" {
			st = "-"
		}
		ready := "no"
		if s.Ready {
			ready = "yes"
		}

		fmt.Fprint(w,
			s.Device, "\t",
			s.Identity.Vendor, "\t",
			s.Identity.Model, "\t",
			s.Identity.Firmware, "\t",
			ready, "\t",
			enc, "\t",
			dec, "\t",
			alg, "\t",
			st, "\t",
			"\n")
	}
	w.Flush()
}
