// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// mrsh is a proof of concept shell built on top of [interp].
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nicomt/mrsh/hostfs"
	"github.com/nicomt/mrsh/interp"
	"github.com/nicomt/mrsh/registry/builtin"
)

var command string

func main() {
	root := &cobra.Command{
		Use:           "mrsh [script]",
		Short:         "a small POSIX-inspired command interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAll,
	}
	var flags *pflag.FlagSet = root.Flags()
	flags.StringVarP(&command, "command", "c", "", "command to be executed")
	flags.SortFlags = false

	err := root.Execute()
	var es exitStatus
	if errors.As(err, &es) {
		os.Exit(int(es))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newShell() *interp.Shell {
	s := interp.NewShell(
		interp.WithFilesystem(hostfs.NewOSFS()),
		interp.WithStdout(func(t string) { fmt.Fprint(os.Stdout, t) }),
		interp.WithStderr(func(t string) { fmt.Fprint(os.Stderr, t) }),
	)
	for _, e := range builtin.All() {
		s.Register(e)
	}
	return s
}

func runAll(cmd *cobra.Command, args []string) error {
	s := newShell()

	if command != "" {
		code := s.Execute(command)
		return exitIfNonZero(code)
	}
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractive(s, os.Stdin)
		}
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return exitIfNonZero(s.Execute(string(src)))
	}
	for _, path := range args {
		if err := runPath(s, path); err != nil {
			return err
		}
		if !s.IsRunning() {
			break
		}
	}
	return exitIfNonZero(s.GetLastExitCode())
}

func runPath(s *interp.Shell, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.Execute(string(data))
	return nil
}

// runInteractive reads one line at a time, printing the shell's
// expanded prompt before each.
func runInteractive(s *interp.Shell, stdin io.Reader) error {
	scanner := bufio.NewScanner(stdin)
	fmt.Fprint(os.Stdout, s.GetPrompt())
	for scanner.Scan() && s.IsRunning() {
		s.Execute(scanner.Text())
		fmt.Fprint(os.Stdout, s.GetPrompt())
	}
	fmt.Fprintln(os.Stdout)
	return exitIfNonZero(s.GetLastExitCode())
}

// exitStatus carries a non-zero shell exit code out to main. The shell
// has already written its own diagnostics, so Error is unused for
// display purposes.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func exitIfNonZero(code int) error {
	if code == 0 {
		return nil
	}
	return exitStatus(code)
}
