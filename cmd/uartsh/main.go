package main

import (
	"github.com/robotalks/uart.go/pkg/cli/sh"
	"github.com/robotalks/uart.go/pkg/device"
)

//go-build: CGO_ENABLED=0

func init() {
	device.SetupFlags()
}

func main() {
	sh.Main()
}
