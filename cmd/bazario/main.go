// Command bazario is the terminal storefront and admin console for a Bazario
// backend. Business rules live server-side; this client keeps a local session
// and cart so browsing and cart edits feel instant even on a slow link.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bazario:", err)
		os.Exit(1)
	}
}
