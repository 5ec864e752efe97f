package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/roamweb/internal/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "serve":
		commands.Serve(os.Args[2:])
	case "render":
		commands.Render(os.Args[2:])
	case "view":
		commands.View(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("roamweb v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `roamweb - Web client for an org-roam style note graph

Usage:
  roamweb <command> [options]

Commands:
  serve             Run the web client
  render            Render a local org/markdown file to HTML
  view              Preview a node in the terminal
  diff              Compare a local file against a node's server copy
  version           Show version information
  help              Show this help message

Examples:
  roamweb serve --addr 127.0.0.1:3000
  roamweb render notes/today.org -o today.html
  roamweb view 123e4567-e89b-12d3-a456-426614174000
  roamweb diff notes/today.org 123e4567-e89b-12d3-a456-426614174000
`
	fmt.Print(usage)
}
