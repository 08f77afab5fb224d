package main

import (
	"fmt"

	"github.com/gobeaver/archivekit"
	"github.com/spf13/cobra"
)

func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported checksum algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, alg := range archivekit.SupportedAlgorithms() {
				if alg == archivekit.DefaultChecksumAlgorithm {
					fmt.Fprintf(w, "%s (default)\n", alg)
					continue
				}
				fmt.Fprintln(w, alg)
			}
		},
	}
}
