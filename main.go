package main

import "github.com/endorses/nekotop/cmd"

func main() {
	cmd.Execute()
}
