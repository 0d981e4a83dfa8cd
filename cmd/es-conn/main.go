package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lwmacct/251124-es-conn/internal/command/esconn"
)

var version = "0.1.0"

func main() {
	cmd := esconn.Command(version)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
