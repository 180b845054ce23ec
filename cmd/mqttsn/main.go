// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package main

import (
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/fogline/mqttsn"
	"github.com/fogline/mqttsn/registry"
)

func main() {
	configFile := flag.String("config", "", "path of a yaml configuration file")
	gateway := flag.String("gateway", "::1", "gateway address")
	gatewayPort := flag.Uint("gateway-port", 10000, "gateway udp port")
	localPort := flag.Uint("port", 47193, "local udp port to bind")
	clientID := flag.String("client-id", "", "client id (minted when empty)")
	topic := flag.String("topic", "sensors/demo", "topic to subscribe to")
	topicDb := flag.String("topic-db", "", "path of a topic registry db (memory only when empty)")
	flag.Parse()

	sigs := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		done <- true
	}()

	fmt.Println(aurora.Magenta("MQTT-SN client initializing..."))

	opts, err := mqttsn.OpenConfigFile(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if opts == nil {
		opts = new(mqttsn.Options)
	}

	var config mqttsn.Config
	if opts.GatewayAddress != "" {
		config, err = opts.SessionConfig()
		if err != nil {
			log.Fatal(err)
		}
	} else {
		addr, err := netip.ParseAddr(*gateway)
		if err != nil {
			log.Fatal(err)
		}
		config = mqttsn.Config{
			GatewayAddress: addr,
			GatewayPort:    uint16(*gatewayPort),
			ClientID:       *clientID,
		}
	}

	var store registry.Store
	if *topicDb != "" {
		store, err = registry.NewBoltStore(&registry.BoltOptions{Path: *topicDb})
		if err != nil {
			log.Fatal(err)
		}
	}

	topics, err := registry.New(store)
	if err != nil {
		log.Fatal(err)
	}
	defer topics.Close()

	client := mqttsn.New(opts)

	client.SetConnectedCallback(func(code byte) {
		if code != mqttsn.Accepted {
			fmt.Println(aurora.Red("  Connection rejected  "))
			done <- true
			return
		}

		err := client.Subscribe(*topic, mqttsn.Qos0, func(code byte, topicID mqttsn.TopicID) {
			if code == mqttsn.Accepted {
				topics.Bind(*topic, uint16(topicID))
				client.Log.Info("subscribed", "topic", *topic, "topic_id", topicID)
			}
		})
		if err != nil {
			client.Log.Warn("subscribe failed", "error", err)
		}
	})

	client.SetPublishReceivedCallback(func(payload []byte, qos mqttsn.QoS, topicID mqttsn.TopicID) {
		name, _ := topics.Name(uint16(topicID))
		client.Log.Info("message received", "topic", name, "topic_id", topicID, "bytes", len(payload))
	})

	client.SetDisconnectedCallback(func(reason mqttsn.DisconnectReason) {
		client.Log.Info("disconnected", "reason", reason)
	})

	if err := client.Start(uint16(*localPort)); err != nil {
		log.Fatal(err)
	}

	if err := client.Connect(config); err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			if err := client.Process(); err != nil {
				client.Log.Warn("process failed", "error", err)
			}
		}
	}()

	fmt.Println(aurora.BgMagenta("  Started!  "))

	<-done
	fmt.Println(aurora.BgRed("  Caught Signal  "))

	client.Stop()
	fmt.Println(aurora.BgGreen("  Finished  "))
}
