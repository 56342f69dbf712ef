package main

import (
	"encoding/binary"
	"fmt"
	"strconv"

	fins "github.com/finsnet/gofins"
	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var count uint16
	cmd := &cobra.Command{
		Use:   "read <address>",
		Short: "Read one or more words/bits from a symbolic address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Read(args[0], count, opts)
			})
			if err != nil {
				return err
			}
			if err := resp.EndCode.AsError(); err != nil {
				return err
			}
			fmt.Println(resp.Values)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&count, "count", 1, "number of words/bits to read")
	return cmd
}

func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <address> <value>",
		Short: "Write one word to a symbolic address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return fmt.Errorf("finsctl: bad value %q: %w", args[1], err)
			}
			payload := make([]byte, 2)
			binary.BigEndian.PutUint16(payload, uint16(v))

			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Write(args[0], 1, payload, opts)
			})
			if err != nil {
				return err
			}
			return resp.EndCode.AsError()
		},
	}
	return cmd
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <address> <count> <value>",
		Short: "Fill a run of words with a single value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return fmt.Errorf("finsctl: bad count %q: %w", args[1], err)
			}
			value, err := strconv.ParseUint(args[2], 10, 16)
			if err != nil {
				return fmt.Errorf("finsctl: bad value %q: %w", args[2], err)
			}

			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Fill(args[0], uint16(count), uint16(value), opts)
			})
			if err != nil {
				return err
			}
			return resp.EndCode.AsError()
		},
	}
	return cmd
}

func newRunCmd() *cobra.Command {
	var program uint16
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Switch the PLC to Run mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Run(program, nil, opts)
			})
			if err != nil {
				return err
			}
			return resp.EndCode.AsError()
		},
	}
	cmd.Flags().Uint16Var(&program, "program", 0, "program number")
	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Switch the PLC to Program mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Stop(opts)
			})
			if err != nil {
				return err
			}
			return resp.EndCode.AsError()
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Read controller status",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := await(func(opts fins.CallOptions) (byte, error) {
				return engine.Status(opts)
			})
			if err != nil {
				return err
			}
			if err := resp.EndCode.AsError(); err != nil {
				return err
			}
			fmt.Printf("mode=%s running=%v fatal=0x%04x nonfatal=0x%04x\n",
				resp.Status.Mode, resp.Status.Running, resp.Status.FatalErrorFlags, resp.Status.NonFatalErrorFlags)
			return nil
		},
	}
}
