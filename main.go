package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mcncl/pastejson/internal/buffer"
	"github.com/mcncl/pastejson/internal/clipboard"
	"github.com/mcncl/pastejson/internal/command"
	"github.com/mcncl/pastejson/internal/config"
	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/pipeline"
)

// CLI defines the command-line interface
var CLI struct {
	File      string `help:"Destination file to paste into. Created if missing. If not specified, the result is written to stdout." short:"f" type:"path"`
	Line      int    `help:"Zero-based line of the caret or selection start. Negative appends after the last line." short:"l" default:"-1"`
	Column    int    `help:"Zero-based column of the caret or selection start." short:"c"`
	EndLine   int    `help:"Zero-based line of the selection end. Negative means no selection." default:"-1"`
	EndColumn int    `help:"Zero-based column of the selection end."`
	Input     string `help:"Read JSON from this file instead of the clipboard. Use - for stdin." short:"i"`
	Config    string `help:"Path to the language configuration file. Searched for upwards when not specified." type:"path"`
	RootName  string `help:"Name for the root type." short:"r"`
	Command   string `help:"Command identifier to run." default:"${command}"`
	Stdout    bool   `help:"Write the patched buffer to stdout instead of saving it."`
	Debug     bool   `help:"Enable debug logging." short:"d"`
	Version   bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Stdin  io.Reader
	Stdout io.Writer
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newParser() (*kong.Kong, error) {
	return kong.New(&CLI,
		kong.Name("pastejson"),
		kong.Description("Paste clipboard JSON into a Go file as type declarations"),
		kong.UsageOnError(),
		kong.Vars{"command": command.DefaultIdentifier},
	)
}

func main() {
	parser, err := newParser()
	if err != nil {
		panic(err)
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("pastejson version %s\n", Version)
		return
	}

	level := slog.LevelInfo
	if CLI.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err = run(&Context{Debug: CLI.Debug, Stdin: os.Stdin, Stdout: os.Stdout, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(errors.UserFriendlyError(err)))
		fmt.Fprintln(os.Stderr, detailStyle.Render(errors.Diagnostic(err)))
		fmt.Fprintf(os.Stderr, "\nFor help, run: pastejson --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	logger := ctx.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	buf, err := loadBuffer()
	if err != nil {
		return err
	}
	buf.SetSelections(selection(buf.LineCount()))

	owner := buffer.NewOwner()
	defer owner.Close()

	orchestrator := pipeline.New(pipeline.Options{
		Source:   inputSource(ctx.Stdin),
		Loader:   config.FileLoader{Path: CLI.Config, Search: true},
		Owner:    owner,
		Logger:   logger,
		RootName: CLI.RootName,
	})
	if err := pipeline.Run(orchestrator, pipeline.Invocation{CommandIdentifier: CLI.Command, Buffer: buf}); err != nil {
		return err
	}

	return writeOutput(buf, ctx.Stdout, logger)
}

func loadBuffer() (*buffer.Buffer, error) {
	if CLI.File == "" {
		return buffer.New(nil), nil
	}
	buf, err := buffer.Load(CLI.File)
	if err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to read '%s'", CLI.File), err)
	}
	return buf, nil
}

// selection builds the caret or selection from the position flags.
func selection(lineCount int) buffer.Range {
	line := CLI.Line
	if line < 0 || line > lineCount {
		line = lineCount
	}
	start := buffer.Position{Line: line, Column: CLI.Column}
	if CLI.EndLine < 0 {
		return buffer.Range{Start: start, End: start}
	}
	return buffer.Range{Start: start, End: buffer.Position{Line: CLI.EndLine, Column: CLI.EndColumn}}
}

func inputSource(stdin io.Reader) clipboard.Source {
	switch CLI.Input {
	case "":
		return clipboard.System{}
	case "-":
		return clipboard.Reader{R: stdin}
	default:
		return clipboard.File(CLI.Input)
	}
}

// writeOutput saves the buffer or prints it
func writeOutput(buf *buffer.Buffer, stdout io.Writer, logger *slog.Logger) error {
	if CLI.File == "" || CLI.Stdout {
		if _, err := buf.WriteTo(stdout); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		if CLI.File == "" {
			// A fresh buffer has no trailing newline to preserve.
			_, _ = io.WriteString(stdout, "\n")
		}
		return nil
	}

	if err := buf.Save(CLI.File); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.File), err)
	}
	logger.Info("generated code written", "file", CLI.File)
	return nil
}
