// main.go
//
// Bylaw data toolchain entry point.
package main

import "github.com/quiethoursguide/bylawdata/cmd"

func main() {
	cmd.Execute()
}
