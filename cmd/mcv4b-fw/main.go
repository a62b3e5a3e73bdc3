//go:build tinygo && stm32f103

// Command mcv4b-fw is the controller firmware.
//
//	tinygo flash -target bluepill ./cmd/mcv4b-fw
package main

import (
	"context"

	"github.com/robotalks/mcv4b/pkg/l0/board/bluepill"
)

func main() {
	fw := bluepill.NewFirmware()
	for {
		// only returns on link failure, start over.
		if err := fw.Boot(context.Background()); err != nil {
			println("boot:", err.Error())
		}
		bluepill.Reset()
	}
}
