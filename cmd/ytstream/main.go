package main

import "github.com/famomatic/ytstream/internal/cli"

func main() {
	cli.Execute()
}
