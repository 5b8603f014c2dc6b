// Command paymock plays the upstream payment system: it signs webhook
// payloads with the shared secret and posts them to a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "paymock",
		Short: "Sign and send mock payment webhooks",
	}

	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(sendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
