package main

import "github.com/selimozcann/cnnct/cmd"

func main() {
	cmd.Execute()
}
