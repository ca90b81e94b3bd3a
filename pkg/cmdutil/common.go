package cmdutil

import (
	"github.com/open-source-firmware/go-tape-encryption/pkg/keyfile"
)

// KeyEmbed is embedded by commands that take key material from a key
// file.
type KeyEmbed struct {
	KeyFile string `required:"" short:"k" env:"TAPE_KEY_FILE" type:"existingfile" help:"Key file: the key in hex on the first line, an optional key name on the second"`
	KeyName string `optional:"" help:"Override the key name stored in the key file"`
}

// Load reads the key file and applies the key name override.
func (k *KeyEmbed) Load() (*keyfile.Key, error) {
	key, err := keyfile.Read(k.KeyFile)
	if err != nil {
		return nil, err
	}
	if k.KeyName != "" {
		key.Name = k.KeyName
	}
	return key, nil
}
