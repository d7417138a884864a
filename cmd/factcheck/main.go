package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:          "factcheck",
		Short:        "Verify statements against web evidence",
		SilenceUsage: true,
	}

	root.AddCommand(serveCMD(), verifyCMD(), migrateCMD(), tokenCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
