package main

import "vidtrim/cmd"

func main() {
	cmd.Execute()
}
