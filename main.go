package main

import "redsync/cmd"

func main() {
	cmd.Execute()
}
