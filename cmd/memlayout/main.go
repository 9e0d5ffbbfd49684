package main

import (
	"fmt"
	"os"

	"github.com/go-delve/memlayout/cmd/memlayout/cmds"
)

func main() {
	if err := cmds.New(main).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
