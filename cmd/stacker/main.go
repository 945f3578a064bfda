package main

import (
	"os"

	"github.com/JonMunkholm/stacktable/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		noColor, _ := cmd.Flags().GetBool("no-color")
		cli.PrintError(cmd.ErrOrStderr(), err, noColor)
		os.Exit(cli.ExitFailure)
	}
}
