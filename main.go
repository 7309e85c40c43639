package main

import "github.com/Aaronwn/kele/cmd"

// main is where it all begins. 😀
func main() {
	cmd.Execute()
}
