package main

import "github.com/swilhoit/sunbeam/cmd"

func main() {
	cmd.Execute()
}
