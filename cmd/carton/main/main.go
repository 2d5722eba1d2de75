package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/carton/cmd/carton"
)

func main() {
	rootCmd := carton.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, carton.RenderError(err))
		os.Exit(1)
	}
}
