package main

import (
	"fmt"
	"os"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a short usage banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  ideastore: markdown notes with metadata in SQL and content in a blob store

  Usage: ideastore <command> [options]
         ideastore --help

  With no command and piped stdin, ideastore serves MCP over stdio.`)
}

func main() {
	args := os.Args
	if len(args) < 2 {
		// No args + interactive terminal → banner; piped stdin → MCP server
		if isTerminal() {
			printBanner()
			return
		}
		args = append(args, "mcp")
	}

	app := newCLIApp()
	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
