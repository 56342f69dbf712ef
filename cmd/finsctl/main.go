// Command finsctl is an interactive/one-shot client for the FINS
// Protocol Engine, built around cobra subcommands and the symbolic
// address API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagHost      string
	flagPort      int
	flagTCP       bool
	flagMode      string
	flagTimeoutMs int
)

func main() {
	root := &cobra.Command{
		Use:   "finsctl",
		Short: "Talk to an OMRON FINS PLC from the command line",
	}
	root.PersistentFlags().StringVar(&flagHost, "host", "127.0.0.1", "PLC host/IP")
	root.PersistentFlags().IntVar(&flagPort, "port", 9600, "PLC port")
	root.PersistentFlags().BoolVar(&flagTCP, "tcp", false, "use FINS over TCP instead of UDP")
	root.PersistentFlags().StringVar(&flagMode, "mode", "CS", "PLC family: CS, CSCJ, CJ, CV, NJ, NJNX, NX")
	root.PersistentFlags().IntVar(&flagTimeoutMs, "timeout-ms", 2000, "per-command timeout in milliseconds")

	root.AddCommand(
		newReadCmd(),
		newWriteCmd(),
		newFillCmd(),
		newRunCmd(),
		newStopCmd(),
		newStatusCmd(),
		newReplCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
