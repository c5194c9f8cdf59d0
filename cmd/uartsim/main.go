package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/bridge/mqtt"
	"github.com/robotalks/uart.go/pkg/bridge/serial"
	"github.com/robotalks/uart.go/pkg/bridge/websocket"
	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

var (
	serialPort string
	listSerial bool
	wsAddr     string
)

func init() {
	device.SetupFlags()
	mqtt.SetupFlags()
	flag.StringVar(&serialPort, "serial", serialPort, "Host serial port bridged to the device.")
	flag.BoolVar(&listSerial, "list-serial", listSerial, "List host serial ports and exit.")
	flag.StringVar(&wsAddr, "ws", wsAddr, "Listen address for websocket clients, e.g. :8080")
}

func main() {
	flag.Parse()

	if listSerial {
		ports, err := serial.Ports()
		if err != nil {
			glog.Exit(err)
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	conf := device.NewConfig()
	dev := conf.MustNewDevice()
	loop := fx.NewLoop().Add(dev)
	mux := (&device.HandlerMux{}).Add(device.LogHandler)

	if serialPort != "" {
		b, err := serial.Open(serialPort, int(conf.BaudRate))
		if err != nil {
			glog.Exit(err)
		}
		loop.AddRunnable(b)
		mux.Add(b)
	}
	if mconf := mqtt.NewConfig(); mconf.Enabled() {
		b, err := mconf.NewBridge()
		if err != nil {
			glog.Exit(err)
		}
		loop.AddRunnable(b)
		mux.Add(b)
	}
	if wsAddr != "" {
		s := websocket.NewServer(wsAddr)
		loop.AddRunnable(s)
		mux.Add(s)
	}
	dev.Handler = mux

	glog.Infof("%s mode, clock %d Hz, baud %d, speed %v",
		dev.Top().Mode(), conf.ClockFrequency, conf.BaudRate, conf.Speed)
	loop.RunOrFail()
}
