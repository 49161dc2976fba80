package main

import "plcsync/cmd"

func main() {
	cmd.Execute()
}
