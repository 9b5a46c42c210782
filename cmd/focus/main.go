package main

import "github.com/xvierd/focus/cmd"

func main() {
	cmd.Execute()
}
