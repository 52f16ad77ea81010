package main

import (
	"github.com/masmgr/forkpoint-go/cmd"
)

func main() {
	cmd.Run()
}
