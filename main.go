package main

import "social-dl/cmd"

func main() {
	cmd.Execute()
}
