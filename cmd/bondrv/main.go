package main

import "bond-rv-analyzer/internal/cli"

func main() {
	cli.Execute()
}
