package main

import "github.com/virtfit/virtfit/cmd"

func main() {
	cmd.Execute()
}
