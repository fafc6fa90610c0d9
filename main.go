package main

import "stylesmith/cmd"

func main() {
	cmd.Execute()
}
