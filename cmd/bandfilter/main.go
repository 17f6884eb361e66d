package main

import (
	"fmt"
	"os"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	maxprocs.Set()

	rootCmd := newRootCmd()
	envy.ParseCobra(rootCmd, envy.CobraConfig{Prefix: "BANDFILTER", Persistent: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
