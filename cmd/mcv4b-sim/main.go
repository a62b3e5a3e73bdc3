package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/sim"
)

func init() {
	sim.SetupFlags()
}

func main() {
	flag.Parse()

	board := sim.NewConfig().NewBoard()
	if err := fx.NewRunner().HandleSignals().Go(board).Wait(); err != nil {
		log.Fatalln(err)
	}
}
