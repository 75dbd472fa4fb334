package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/layers"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	fs := flag.NewFlagSet("layers-bloom", flag.ExitOnError)
	cfg, err := layers.ParseFlags(fs, os.Args[1:], layers.VariantBloom)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	layers.NewDemo(cfg).Build().Run()
}
