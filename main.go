package main

import "github.com/wlboard/wlboard/cmd"

func main() {
	cmd.Execute()
}
