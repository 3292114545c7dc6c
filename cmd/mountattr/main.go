package main

import "github.com/marmos91/mountattr/cmd/mountattr/cmd"

func main() {
	cmd.Execute()
}
