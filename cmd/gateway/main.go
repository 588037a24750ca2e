package main

import (
	"flag"
	"os"

	log "github.com/golang/glog"

	"github.com/dgca/paywalled-blog/pkg/gatewaymain"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

func main() {
	config := &utils.GatewayConfig{}
	flag.Usage = func() {
		config.OutputUsage()
		os.Exit(0)
	}
	flag.Parse()

	err := config.PopulateFromEnv()
	if err != nil {
		config.OutputUsage()
		log.Errorf("Invalid gateway config: err: %v\n", err)
		os.Exit(2)
	}

	gateway, err := gatewaymain.InitGateway(config)
	if err != nil {
		log.Errorf("Error initializing gateway: err: %v", err)
		os.Exit(2)
	}

	err = gateway.Run()
	if err != nil {
		log.Errorf("Error running gateway: err: %v", err)
		os.Exit(2)
	}
}
