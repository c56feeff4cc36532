package main

import (
	"fmt"
	"os"

	"github.com/carnage999-max/ultimate-app-manager/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
