package main

import (
	"go.brendoncarroll.net/star"

	"loomvm.org/loom/loomcmd"
)

func main() {
	star.Main(loomcmd.Root())
}
