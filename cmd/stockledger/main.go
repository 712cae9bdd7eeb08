package main

//go:generate swag init --dir ./,../../internal/adminapi --output ../../docs --outputTypes go

import (
	"fmt"
	"os"

	"github.com/talkincode/stockledger/internal/cli"
)

// @title stockledger admin API
// @version 1.0
// @description Catalog, sales and inventory reconciliation API.
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
