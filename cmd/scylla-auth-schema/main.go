// Copyright (C) 2017 ScyllaDB

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.OutOrStderr(), "ERROR: %s\n", err)
		os.Exit(1)
	}
}
