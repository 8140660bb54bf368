package main

import "distpack/internal/cli"

func main() {
	cli.Execute()
}
