package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword - print the bcrypt hash of the admin password (prompted)")
	fmt.Fprintln(cli.out, "  content [-file PATH] [-dump] - validate the flow demo content (built-in when no file)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	contentCmd := flag.NewFlagSet("content", flag.ContinueOnError)
	contentCmd.SetOutput(cli.out)
	contentFile := contentCmd.String("file", "", "YAML content file. The built-in content is used when empty.")
	contentDump := contentCmd.Bool("dump", false, "Print the content as YAML once validated.")

	switch args[1] {
	case "hashpassword":
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(pwd)
	case "content":
		if err := contentCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		return cli.checkContent(*contentFile, *contentDump)
	default:
		cli.printUsage()
		return errHelp
	}
}
