package main

import (
	"fmt"
	"time"

	fins "github.com/finsnet/gofins"
	"go.uber.org/zap"
)

// openEngine opens an Engine using the root command's persistent flags.
func openEngine() (*fins.Engine, error) {
	protocol := "udp"
	if flagTCP {
		protocol = "tcp"
	}
	return fins.NewEngine(flagHost, flagPort,
		fins.WithProtocol(protocol),
		fins.WithMode(fins.ModeFromString(flagMode)),
		fins.WithTimeout(flagTimeoutMs),
		fins.WithLogger(zap.NewNop()),
	)
}

// await turns one asynchronous Engine call into a blocking call,
// waiting for the completion callback or a local CLI-side deadline,
// whichever comes first.
func await(submit func(opts fins.CallOptions) (byte, error)) (*fins.Response, error) {
	done := make(chan struct{}, 1)
	var seq *fins.Sequence
	var callErr error

	_, err := submit(fins.CallOptions{
		Callback: func(err error, s *fins.Sequence) {
			seq, callErr = s, err
			done <- struct{}{}
		},
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-done:
		if callErr != nil {
			return nil, callErr
		}
		return seq.Response, nil
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("finsctl: timed out waiting for completion")
	}
}
