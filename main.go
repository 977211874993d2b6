package main

import "github.com/theirongolddev/subwatch/cmd"

func main() {
	cmd.Execute()
}
