package main

import "github.com/aita/blockjoin/cmd"

func main() {
	cmd.Execute()
}
