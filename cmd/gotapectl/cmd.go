package main

import (
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/open-source-firmware/go-tape-encryption/pkg/cmdutil"
	"github.com/open-source-firmware/go-tape-encryption/pkg/drive"
	"github.com/open-source-firmware/go-tape-encryption/pkg/keyfile"
	"github.com/open-source-firmware/go-tape-encryption/pkg/ssp"
)

// context is the context struct required by kong command line parser
type context struct {
	audit *logrus.Logger
}

// statusCmd is the struct for the status command
type statusCmd struct {
	Device string `flag:"" required:"" short:"d" help:"Path to tape device (e.g. /dev/nst0)"`
	Detail bool   `flag:"" help:"Also report the compression status"`
}

// capabilitiesCmd is the struct for the capabilities command
type capabilitiesCmd struct {
	Device string `flag:"" required:"" short:"d" help:"Path to tape device (e.g. /dev/nst0)"`
}

// nextBlockCmd is the struct for the next-block command
type nextBlockCmd struct {
	Device string `flag:"" required:"" short:"d" help:"Path to tape device (e.g. /dev/nst0)"`
}

// enableCmd is the struct for the enable command
type enableCmd struct {
	Device string `flag:"" required:"" short:"d" help:"Path to tape device (e.g. /dev/nst0)"`
	cmdutil.KeyEmbed
	Mode          string `flag:"" default:"on" enum:"on,mixed,rawread" help:"Handling of reads: on decrypts, mixed also passes unencrypted blocks, rawread returns ciphertext"`
	Algorithm     uint8  `flag:"" default:"1" help:"Algorithm index from the capabilities page"`
	RawReadPolicy string `flag:"" name:"raw-read-policy" default:"default" enum:"default,allow,deny" help:"Whether later raw reads may return encrypted blocks"`
	KADFormat     string `flag:"" name:"kad-format" default:"auto" enum:"auto,ascii,binary" help:"How the key name is recorded in the key descriptor"`
	CKOD          bool   `flag:"" name:"ckod" help:"Ask the drive to discard the key when the volume is unloaded"`
}

// disableCmd is the struct for the disable command
type disableCmd struct {
	Device string `flag:"" required:"" short:"d" help:"Path to tape device (e.g. /dev/nst0)"`
}

// generateKeyCmd is the struct for the generate-key command
type generateKeyCmd struct {
	Output  string `flag:"" required:"" short:"o" type:"path" help:"Key file to create"`
	Bits    int    `flag:"" default:"256" help:"Key size in bits"`
	KeyName string `flag:"" help:"Key name to record in the key file"`
}

// deriveKeyCmd is the struct for the derive-key command
type deriveKeyCmd struct {
	Output     string `flag:"" required:"" short:"o" type:"path" help:"Key file to create"`
	Passphrase string `flag:"" required:"" type:"passphrase" env:"TAPE_PASSPHRASE" help:"Passphrase the key is derived from"`
	Salt       string `flag:"" required:"" help:"Site specific salt mixed into the derivation"`
	Bits       int    `flag:"" default:"256" help:"Key size in bits"`
	KeyName    string `flag:"" help:"Key name to record in the key file"`
}

// cli is the main command line interface struct required by kong command line parser
var cli struct {
	Status       statusCmd       `cmd:"" help:"Report the data encryption status of a drive"`
	Capabilities capabilitiesCmd `cmd:"" help:"List the encryption algorithms a drive offers"`
	NextBlock    nextBlockCmd    `cmd:"" name:"next-block" help:"Report the encryption status of the block at the current position"`
	Enable       enableCmd       `cmd:"" help:"Enable hardware encryption with a key from a key file"`
	Disable      disableCmd      `cmd:"" help:"Disable hardware encryption and discard the drive key"`
	GenerateKey  generateKeyCmd  `cmd:"" name:"generate-key" help:"Generate a random key file"`
	DeriveKey    deriveKeyCmd    `cmd:"" name:"derive-key" help:"Derive a key file from a passphrase"`
}

func yesno(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// formatKAD renders a key descriptor for display. ASCII descriptors
// print as text, everything else as hex.
func formatKAD(k ssp.KAD, f ssp.KADFormat) string {
	if f == ssp.KADFormatASCIIName && k.Type != ssp.KADTypeNonce {
		return string(k.Descriptor)
	}
	return hex.EncodeToString(k.Descriptor)
}

// Run executes when the status command is invoked
func (t *statusCmd) Run(ctx *context) error {
	d, err := drive.Open(t.Device)
	if err != nil {
		return fmt.Errorf("drive.Open(%s) failed: %v", t.Device, err)
	}
	defer d.Close()

	id, err := d.Identify()
	if err != nil {
		return fmt.Errorf("drive.Identify() failed: %v", err)
	}
	ready, err := d.Ready()
	if err != nil {
		return fmt.Errorf("drive.Ready() failed: %v", err)
	}
	des, err := drive.EncryptionStatus(d)
	if err != nil {
		return fmt.Errorf("reading the encryption status failed: %v", err)
	}

	fmt.Printf("Device:               %s (%s)\n", t.Device, id)
	fmt.Printf("Volume loaded:        %s\n", yesno(ready))
	fmt.Printf("Encryption mode:      %s\n", des.EncryptionMode)
	fmt.Printf("Decryption mode:      %s\n", des.DecryptionMode)
	fmt.Printf("Algorithm index:      %d\n", des.AlgorithmIndex)
	fmt.Printf("Key instance counter: %d\n", des.KeyInstanceCounter)
	fmt.Printf("Raw reads disabled:   %s\n", yesno(des.RDMD))
	if ready {
		fmt.Printf("Encrypted blocks:     %s\n", yesno(des.VCELB))
	}
	for _, kad := range des.KADs {
		fmt.Printf("Key descriptor:       %s (%s)\n", formatKAD(kad, des.KADFormat), kad.Type)
	}
	if t.Detail {
		comp, err := drive.CompressionStatus(d)
		switch {
		case err == drive.ErrNotSupported:
			// No mode page access on this transport, leave it out.
		case err != nil:
			return fmt.Errorf("reading the compression status failed: %v", err)
		default:
			fmt.Printf("Compression enabled:  %s\n", yesno(comp.Enabled))
		}
	}
	return nil
}

// Run executes when the capabilities command is invoked
func (t *capabilitiesCmd) Run(ctx *context) error {
	d, err := drive.Open(t.Device)
	if err != nil {
		return fmt.Errorf("drive.Open(%s) failed: %v", t.Device, err)
	}
	defer d.Close()

	dec, err := drive.Capabilities(d)
	if err != nil {
		return fmt.Errorf("reading the encryption capabilities failed: %v", err)
	}

	switch dec.ExternalDECC {
	case 2:
		fmt.Printf("External data encryption control: supported\n")
	case 1:
		fmt.Printf("External data encryption control: not supported\n")
	}
	if dec.ConfigurationPrevented == 2 {
		fmt.Printf("Parameter changes are prevented by external control\n")
	}
	if len(dec.Algorithms) == 0 {
		fmt.Printf("The drive reports no encryption algorithms\n")
		return nil
	}
	for _, alg := range dec.Algorithms {
		fmt.Printf("Algorithm index %d:\n", alg.AlgorithmIndex)
		if alg.SecurityAlgorithmCode != 0 {
			fmt.Printf("  Security algorithm code: 0x%08x\n", alg.SecurityAlgorithmCode)
		}
		fmt.Printf("  Encrypt:                 %s\n", ssp.CapabilityString(alg.EncryptCapability))
		fmt.Printf("  Decrypt:                 %s\n", ssp.CapabilityString(alg.DecryptCapability))
		fmt.Printf("  Key length:              %d bytes\n", alg.KeyLength)
		fmt.Printf("  Maximum U-KAD length:    %d bytes\n", alg.MaximumUKADLength)
		fmt.Printf("  Maximum A-KAD length:    %d bytes\n", alg.MaximumAKADLength)
		fmt.Printf("  Valid for loaded volume: %s\n", yesno(alg.AVFMV))
	}
	return nil
}

// Run executes when the next-block command is invoked
func (t *nextBlockCmd) Run(ctx *context) error {
	d, err := drive.Open(t.Device)
	if err != nil {
		return fmt.Errorf("drive.Open(%s) failed: %v", t.Device, err)
	}
	defer d.Close()

	nbes, err := drive.NextBlockStatus(d)
	if err != nil {
		return fmt.Errorf("reading the next block status failed: %v", err)
	}

	fmt.Printf("Logical object number: %d\n", nbes.LogicalObjectNumber)
	fmt.Printf("Encryption status:     %s\n", ssp.BlockStatusString(nbes.EncryptionStatus))
	switch nbes.EncryptionStatus {
	case ssp.BlockStatusEncrypted, ssp.BlockStatusNoKey, ssp.BlockStatusUnsupportedAlg:
		fmt.Printf("Algorithm index:       %d\n", nbes.AlgorithmIndex)
		fmt.Printf("Raw reads disabled:    %s\n", yesno(nbes.RDMDS))
	}
	for _, kad := range nbes.KADs {
		fmt.Printf("Key descriptor:        %s (%s)\n", formatKAD(kad, nbes.KADFormat), kad.Type)
	}
	return nil
}

// checkAlgorithm verifies the requested algorithm index and the key
// length against the capabilities the drive reports.
func checkAlgorithm(d drive.DriveIntf, index uint8, key *keyfile.Key) error {
	dec, err := drive.Capabilities(d)
	if err != nil {
		return fmt.Errorf("reading the encryption capabilities failed: %v", err)
	}
	for _, alg := range dec.Algorithms {
		if alg.AlgorithmIndex != index {
			continue
		}
		if alg.EncryptCapability == ssp.CapabilityNo {
			return fmt.Errorf("algorithm index %d does not support encryption", index)
		}
		if int(alg.KeyLength) != len(key.Material) {
			return fmt.Errorf("algorithm index %d takes a %d byte key, the key file holds %d bytes", index, alg.KeyLength, len(key.Material))
		}
		if key.Name != "" && len(key.Name) > int(alg.MaximumUKADLength) {
			return fmt.Errorf("key name %q exceeds the %d byte descriptor limit of algorithm index %d", key.Name, alg.MaximumUKADLength, index)
		}
		return nil
	}
	return fmt.Errorf("the drive does not offer algorithm index %d", index)
}

// Run executes when the enable command is invoked
func (t *enableCmd) Run(ctx *context) error {
	key, err := t.Load()
	if err != nil {
		return err
	}

	var decrypt ssp.DecryptMode
	switch t.Mode {
	case "on":
		decrypt = ssp.DecryptModeOn
	case "mixed":
		decrypt = ssp.DecryptModeMixed
	case "rawread":
		decrypt = ssp.DecryptModeRaw
	}
	var rdmc ssp.RDMC
	switch t.RawReadPolicy {
	case "allow":
		rdmc = ssp.RDMCEnabled
	case "deny":
		rdmc = ssp.RDMCDisabled
	}

	d, err := drive.Open(t.Device)
	if err != nil {
		return fmt.Errorf("drive.Open(%s) failed: %v", t.Device, err)
	}
	defer d.Close()

	if err := checkAlgorithm(d, t.Algorithm, key); err != nil {
		return err
	}

	p := &ssp.SDE{
		EncryptionMode: ssp.EncryptModeOn,
		DecryptionMode: decrypt,
		AlgorithmIndex: t.Algorithm,
		Key:            key.Material,
		KeyName:        key.Name,
		RDMC:           rdmc,
		CKOD:           t.CKOD,
	}
	switch t.KADFormat {
	case "ascii":
		p.KADFormat = ssp.KADFormatASCIIName
	case "binary":
		p.KADFormat = ssp.KADFormatBinaryName
	default:
		if key.Name != "" {
			p.KADFormat = ssp.KADFormatASCIIName
		}
	}
	if err := drive.SetEncryption(d, p); err != nil {
		return fmt.Errorf("setting the data encryption parameters failed: %v", err)
	}

	des, err := drive.EncryptionStatus(d)
	if err != nil {
		return fmt.Errorf("encryption enabled but reading back the status failed: %v", err)
	}
	if des.EncryptionMode != ssp.EncryptModeOn {
		return fmt.Errorf("the drive accepted the parameters but reports encryption %s", des.EncryptionMode)
	}

	ctx.audit.WithFields(logrus.Fields{
		"device":     t.Device,
		"encryption": p.EncryptionMode.String(),
		"decryption": p.DecryptionMode.String(),
		"algorithm":  p.AlgorithmIndex,
		"key_name":   p.KeyName,
	}).Info("tape encryption enabled")

	fmt.Printf("Encryption enabled on %s (key instance counter %d)\n", t.Device, des.KeyInstanceCounter)
	return nil
}

// Run executes when the disable command is invoked
func (t *disableCmd) Run(ctx *context) error {
	d, err := drive.Open(t.Device)
	if err != nil {
		return fmt.Errorf("drive.Open(%s) failed: %v", t.Device, err)
	}
	defer d.Close()

	if err := drive.SetEncryption(d, &ssp.SDE{}); err != nil {
		return fmt.Errorf("clearing the data encryption parameters failed: %v", err)
	}

	ctx.audit.WithFields(logrus.Fields{
		"device": t.Device,
	}).Info("tape encryption disabled")

	fmt.Printf("Encryption disabled on %s\n", t.Device)
	return nil
}

// Run executes when the generate-key command is invoked
func (t *generateKeyCmd) Run(ctx *context) error {
	key, err := keyfile.Generate(t.Bits)
	if err != nil {
		return err
	}
	key.Name = t.KeyName
	if err := keyfile.Write(t.Output, key); err != nil {
		return err
	}
	fmt.Printf("Wrote a %d bit key to %s\n", t.Bits, t.Output)
	return nil
}

// Run executes when the derive-key command is invoked
func (t *deriveKeyCmd) Run(ctx *context) error {
	key, err := keyfile.Derive(t.Passphrase, t.Salt, t.Bits)
	if err != nil {
		return err
	}
	key.Name = t.KeyName
	if err := keyfile.Write(t.Output, key); err != nil {
		return err
	}
	fmt.Printf("Wrote a %d bit key to %s\n", t.Bits, t.Output)
	return nil
}
