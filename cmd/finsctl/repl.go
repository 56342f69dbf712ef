package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	fins "github.com/finsnet/gofins"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive read/write session against the PLC",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine()
			if err != nil {
				return err
			}
			defer engine.Close()
			return runRepl(engine)
		},
	}
}

func runRepl(engine *fins.Engine) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("fins> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}

		line.AppendHistory(input)
		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		verb := strings.ToLower(fields[0])

		switch verb {
		case "exit", "quit":
			return nil
		case "help", "?":
			printReplHelp()
			continue
		}

		if err := handleReplCommand(engine, verb, fields[1:]); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func handleReplCommand(engine *fins.Engine, verb string, args []string) error {
	switch verb {
	case "read":
		if len(args) < 1 {
			return fmt.Errorf("usage: read <address> [count]")
		}
		count := uint64(1)
		if len(args) > 1 {
			var err error
			count, err = strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return err
			}
		}
		resp, err := await(func(opts fins.CallOptions) (byte, error) {
			return engine.Read(args[0], uint16(count), opts)
		})
		if err != nil {
			return err
		}
		if err := resp.EndCode.AsError(); err != nil {
			return err
		}
		fmt.Println(resp.Values)
		return nil

	case "write":
		if len(args) != 2 {
			return fmt.Errorf("usage: write <address> <value>")
		}
		v, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return err
		}
		payload := make([]byte, 2)
		binary.BigEndian.PutUint16(payload, uint16(v))
		resp, err := await(func(opts fins.CallOptions) (byte, error) {
			return engine.Write(args[0], 1, payload, opts)
		})
		if err != nil {
			return err
		}
		return resp.EndCode.AsError()

	case "status":
		resp, err := await(func(opts fins.CallOptions) (byte, error) {
			return engine.Status(opts)
		})
		if err != nil {
			return err
		}
		if err := resp.EndCode.AsError(); err != nil {
			return err
		}
		fmt.Printf("mode=%s running=%v\n", resp.Status.Mode, resp.Status.Running)
		return nil

	case "stats":
		s := engine.Stats()
		fmt.Printf("replies=%d errors=%d timeouts=%d avg=%.2fms msg/s=%.1f\n",
			s.ReplyCount, s.ErrorCount, s.TimeoutCount, s.AverageReplyMs, s.MsgPerSec)
		return nil

	default:
		return fmt.Errorf("unknown command %q (try: read, write, status, stats, help)", verb)
	}
}

func printReplHelp() {
	fmt.Println(`commands:
  read <address> [count]
  write <address> <value>
  status
  stats
  help
  exit`)
}
