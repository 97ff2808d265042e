// Command xevm runs a single piece of EVM-style bytecode to completion and
// reports its terminal status, gas usage and returndata.
//
// Usage:
//
//	xevm [flags] <hex-code>
//
// Flags:
//
//	-gas        Gas budget for the run (default 1000000)
//	-calldata   Hex-encoded calldata made available to CALLDATA* opcodes
//	-verbosity  Log level 0-5 (default 3)
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/03ladr/xevm/core/vm"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the testable entry point: it parses args, executes the code, and
// returns the process exit code.
func run(args []string) int {
	fs := flag.NewFlagSet("xevm", flag.ContinueOnError)

	gasLimit := fs.Uint64("gas", 1_000_000, "gas budget for the run")
	calldataHex := fs.String("calldata", "", "hex-encoded calldata")
	verbosity := fs.Int("verbosity", 3, "log level 0-5 (0=silent, 5=trace)")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *showVersion {
		fmt.Printf("xevm %s (commit %s)\n", version, commit)
		return 0
	}

	setupLogging(*verbosity)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one positional hex-code argument is required")
		return 2
	}

	code, err := decodeHex(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid code: %v\n", err)
		return 2
	}

	calldata, err := decodeHex(*calldataHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid calldata: %v\n", err)
		return 2
	}

	log.Info("Starting run",
		"gas", *gasLimit,
		"code_len", len(code),
		"calldata_len", len(calldata),
	)

	exec := vm.NewExecutor(code, *gasLimit, calldata, vm.BlockContext{})
	status := exec.Run()

	log.Info("Run finished",
		"status", status.String(),
		"gas_remaining", exec.Gas(),
		"returndata_len", len(exec.Returndata()),
	)

	if len(exec.Returndata()) > 0 {
		fmt.Printf("returndata: 0x%s\n", hex.EncodeToString(exec.Returndata()))
	}
	fmt.Printf("status: %s\n", status)
	fmt.Printf("gas remaining: %d\n", exec.Gas())

	return exitCode(status)
}

// decodeHex decodes s, tolerating an optional leading "0x"/"0X" and an
// empty string (which decodes to nil).
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

// exitCode maps a terminal Status to a small, stable process exit code:
// 0 for the sole accepting terminal, and distinct non-zero codes grouped
// by status family (revert, gas, stack, jump/decode, memory, and a generic
// fallback) otherwise.
func exitCode(status vm.Status) int {
	switch status {
	case vm.StatusCompletion:
		return 0
	case vm.StatusRevert:
		return 1
	case vm.StatusOutOfGas:
		return 10
	case vm.StatusStackOverflow, vm.StatusStackUnderflow, vm.StatusArgOutOfRange:
		return 20
	case vm.StatusBadJumpDest, vm.StatusUndefinedInstruction:
		return 30
	case vm.StatusInvalidMemoryAccess:
		return 40
	default:
		return 99
	}
}

func setupLogging(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 1:
		lvl = slog.LevelError
	case verbosity == 2:
		lvl = slog.LevelWarn
	case verbosity == 3:
		lvl = slog.LevelInfo
	case verbosity == 4:
		lvl = slog.LevelDebug
	default:
		lvl = log.LevelTrace
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
}
