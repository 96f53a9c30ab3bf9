package main

import (
	"fmt"
	"os"

	"storefront/config"
)

func main() {

	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	Execute()
}
