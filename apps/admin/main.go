package main

import (
	"log"
	"os"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags)

	cli := commandLine{out: os.Stdout}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
