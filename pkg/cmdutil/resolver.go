package cmdutil

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
)

// ResolvePassphrase returns a kong.Resolver that prompts for a passphrase.
// If confirm is true, the user is prompted to enter the passphrase twice for confirmation.
func ResolvePassphrase(confirm bool) kong.Resolver {
	return kong.ResolverFunc(func(ctx *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		if flag.Tag.Type != "passphrase" || !flag.Required || flag.Value.Set && !flag.Value.Target.IsZero() {
			return nil, nil
		}

		if flag.Target.Kind() != reflect.String {
			return nil, fmt.Errorf(`'passphrase' type must be applied to a string not %s`, flag.Target.Type())
		}

		fmt.Printf("No value has been provided for flag `%s`.\n", flag.ShortSummary())
		if flag.Help != "" {
			fmt.Println("Description: " + flag.Help)
		}

		for {
			fmt.Printf("Enter %s: ", strings.ToTitle(flag.Name))
			rawPass, err := term.ReadPassword(0)
			fmt.Print("\n")
			if err != nil {
				return "", fmt.Errorf("passphrase could not be read: %v", err)
			}
			pass := strings.TrimSpace(string(rawPass))
			if pass == "" {
				return nil, nil
			}

			if confirm {
				fmt.Printf("Re-enter %s: ", strings.ToTitle(flag.Name))
				rawPass2, err2 := term.ReadPassword(0)
				fmt.Print("\n\n")
				if err2 != nil {
					return "", fmt.Errorf("passphrase could not be read: %v", err2)
				}
				if pass != strings.TrimSpace(string(rawPass2)) {
					fmt.Println("Passphrases do not match. Please try again.")
					continue
				}
			}

			return pass, nil
		}
	})
}
