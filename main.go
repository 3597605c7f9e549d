package main

import (
	"github.com/oss-clearing/licsum/cmd"
)

func main() {
	cmd.Execute()
}
