package main

import (
	"log"
	"os"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
	"github.com/trezcool/revisioncam/core/qcm"
)

func main() {
	logger := log.New(os.Stderr, "STUDY : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := commandLine{
		conf:  core.NewConfig(),
		in:    os.Stdin,
		out:   os.Stdout,
		clock: auth.SystemClock,
		src:   qcm.NewRandomSource(),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
