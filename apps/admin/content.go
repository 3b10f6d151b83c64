package main

import (
	"fmt"

	"github.com/trezcool/masomo-landing/core/flowdemo"
)

func (cli *commandLine) checkContent(file string, dump bool) error {
	var content *flowdemo.Catalog
	if file == "" {
		content = flowdemo.DefaultContent()
	} else {
		var err error
		if content, err = flowdemo.LoadContentFile(file); err != nil {
			return err
		}
	}

	if dump {
		return content.Dump(cli.out)
	}
	for _, p := range content.Personas() {
		steps, _ := content.Steps(p)
		fmt.Fprintf(cli.out, "%s: %d steps\n", p.Name(), len(steps))
	}
	return nil
}
