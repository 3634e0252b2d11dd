package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasWallet() bool
	Submit(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Seller(ctx context.Context, args []string) error
	Storage(ctx context.Context, args []string) error
	Summary(ctx context.Context) error
	History(ctx context.Context) error
	Export(ctx context.Context) error
	Wallet(ctx context.Context, args []string) error
	Disconnect(ctx context.Context) error
	Reset(ctx context.Context) error
}

const (
	helpNoWallet = "Available commands: wallet [dev <name>|connect|new], (l)ist [id], seller <id>, storage <id>, summary, history, export, reset, exit"
	helpWallet   = "Available commands: submit, (l)ist [id], seller <id>, storage <id>, summary, history, export, wallet, disconnect, reset, exit"
)

// runREPL starts a simple read-eval-print loop for the reputation CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to commands that take arguments. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	  - help             show available commands
//	  - submit           rate a seller (needs a wallet)
//	  - list [id]        list all ratings, or those of one seller
//	  - seller <id>      one seller's ratings with averages
//	  - storage <id>     same, read straight from contract storage
//	  - summary          per seller averages of the last listing
//	  - history          ratings submitted from this machine
//	  - export           upload the last listing to S3
//	  - wallet ...       show or connect the signing wallet
//	  - disconnect       forget the connected wallet
//	  - reset            clear the local cache
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rep %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.hasWallet() {
				printlnFn(helpWallet)
			} else {
				printlnFn(helpNoWallet)
			}

		case "submit":
			_ = a.Submit(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "seller":
			_ = a.Seller(ctx, args)

		case "storage":
			_ = a.Storage(ctx, args)

		case "summary":
			_ = a.Summary(ctx)

		case "history":
			_ = a.History(ctx)

		case "export":
			_ = a.Export(ctx)

		case "wallet":
			_ = a.Wallet(ctx, args)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
