// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Key files hold tape encryption keys at rest: the key in hex on the
// first content line, an optional key name on the second, with blank
// lines and '#' comments ignored. Key material never belongs in
// command line arguments, so everything here works through files with
// owner-only permissions.
package keyfile

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const deriveIterations = 600000

type Key struct {
	Material []byte
	Name     string
}

// Read loads a key file, refusing one that group or others can read.
func Read(path string) (*Key, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if perm := fi.Mode().Perm(); perm&0o077 != 0 {
		return nil, fmt.Errorf("permissions 0%o on %s are too open, want at most 0600", perm, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	k := &Key{}
	seen := 0
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch seen {
		case 0:
			k.Material, err = hex.DecodeString(line)
			if err != nil {
				return nil, fmt.Errorf("bad key on line %d of %s: %v", i+1, path, err)
			}
		case 1:
			k.Name = line
		default:
			return nil, fmt.Errorf("unexpected content on line %d of %s", i+1, path)
		}
		seen++
	}
	if len(k.Material) == 0 {
		return nil, fmt.Errorf("no key found in %s", path)
	}
	return k, nil
}

// Write creates a new key file with owner-only permissions. An
// existing file is never replaced.
func Write(path string, k *Key) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, hex.EncodeToString(k.Material)); err != nil {
		f.Close()
		return err
	}
	if k.Name != "" {
		if _, err := fmt.Fprintln(f, k.Name); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Generate draws a new random key of the given size from the system
// entropy source.
func Generate(bits int) (*Key, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("key size %d is not a positive multiple of 8 bits", bits)
	}
	b := make([]byte, bits/8)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return &Key{Material: b}, nil
}

// Derive computes a key of the given size from a passphrase. The salt
// keeps two installations with the same passphrase from holding the
// same key; it has to stay stable, since changing it changes the
// derived key.
func Derive(passphrase, salt string, bits int) (*Key, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("key size %d is not a positive multiple of 8 bits", bits)
	}
	if salt == "" {
		return nil, fmt.Errorf("derivation salt must not be empty")
	}
	return &Key{Material: pbkdf2.Key([]byte(passphrase), []byte(salt), deriveIterations, bits/8, sha256.New)}, nil
}
