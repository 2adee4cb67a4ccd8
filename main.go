package main

import "smartsales/cmd"

func main() {
	cmd.Execute()
}
