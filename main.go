package main

import (
	"context"
	"fmt"
	"os"

	"lease-agent/cmd"
)

func main() {
	if err := cmd.NewRootCommand(context.Background()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lease-agent: %v\n", err)
		os.Exit(1)
	}
}
