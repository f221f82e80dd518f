// Command hash-admin-key generates an admin API key and its Argon2id hash,
// or hashes an existing key, for the ADMIN_API_KEY_HASH setting.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/medyatra/credsvc/internal/auth"
)

type output struct {
	Key  string `json:"key,omitempty"`
	Hash string `json:"hash"`
}

func main() {
	var (
		key    = flag.String("key", "", "Existing admin key to hash; omit to generate a new one")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	var out output

	if *key != "" {
		hash, err := auth.HashKey(*key)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash key:", err)
			os.Exit(1)
		}
		out = output{Hash: hash}
	} else {
		generated, err := auth.GenerateAdminKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate key:", err)
			os.Exit(1)
		}
		out = output{Key: generated.Plaintext, Hash: generated.Hash}
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
	default:
		if out.Key != "" {
			fmt.Println("Admin key (store securely, shown once):")
			fmt.Println("  " + out.Key)
		}
		fmt.Println("ADMIN_API_KEY_HASH:")
		fmt.Println("  " + out.Hash)
	}
}
