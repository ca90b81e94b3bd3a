// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gotapectl manages the hardware data encryption of SCSI tape drives.
package main

import (
	"github.com/alecthomas/kong"

	"github.com/open-source-firmware/go-tape-encryption/pkg/cmdutil"
)

const (
	programName = "gotapectl"
	programDesc = "Control hardware data encryption on SCSI tape drives"
)

func main() {
	// Parse kong flags and sub-commands
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Resolvers(cmdutil.ResolvePassphrase(true)))

	// Run the command
	err := ctx.Run(&context{audit: newAuditLogger()})
	ctx.FatalIfErrorf(err)
}
