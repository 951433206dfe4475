package main

import "pubwatch/internal/cli"

func main() {
	cli.Execute()
}
