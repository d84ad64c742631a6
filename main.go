package main

import "github.com/kavanlund/heapsnap/cmd"

func main() {
	cmd.Execute()
}
