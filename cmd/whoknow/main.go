package main

import "github.com/mcoot/whoknow/internal/cli"

func main() {
	cli.Execute()
}
