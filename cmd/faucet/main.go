// Package main: faucet service.
//
// The faucet serves one configured network. It derives its account from the configured HD wallet seed, keeps
// the account's transaction nonce synchronized with the network in the background and disburses a fixed,
// configured amount per drip request.
package main

import (
	"encoding/hex"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tarancss/hd"

	"github.com/tarancss/faucet/dripper"
	"github.com/tarancss/faucet/faucet"
	"github.com/tarancss/faucet/lib/captcha"
	"github.com/tarancss/faucet/lib/chain"
	"github.com/tarancss/faucet/lib/config"
	"github.com/tarancss/faucet/lib/msg"
	"github.com/tarancss/faucet/lib/msg/amqp"
	"github.com/tarancss/faucet/lib/store"
	"github.com/tarancss/faucet/lib/store/db"
	"github.com/tarancss/faucet/lib/util"
)

func main() {
	// get command line flags
	confPath := flag.String("c", "", "flag to get configuration from json file")
	monitor := flag.Bool("m", false, "flag to monitor the server with Prometheus at http://localhost:9090")
	flag.Parse()

	// extract configuration
	conf, err := config.ExtractConfiguration(*confPath)
	if err != nil {
		panic(err)
	}

	log.Printf("Configuration:%+v", conf)

	// connect to database, the quota ledger cannot work without one
	var dbConn store.DB

	if dbConn, err = db.New(conf.DBType, conf.DBConn); err != nil {
		panic(err)
	}

	log.Printf("Connecting to database:%+v\n", conf.DBConn)

	// resolve the network to serve
	bcConf, ok := conf.NetworkConfig()
	if !ok {
		log.Panicf("Network %s is not defined in the blockchains configuration", conf.Network)
	}

	// derive the faucet account from the HD wallet seed
	seed, err := hex.DecodeString(conf.Seed)
	if err != nil {
		panic(err)
	}

	hdw, err := hd.Init(seed)
	if err != nil {
		panic(err)
	}

	addr, key, _, err := hdw.Address(0, hd.External, 0)
	if err != nil {
		panic(err)
	}

	address := "0x" + hex.EncodeToString(addr)
	log.Printf("[%s] Faucet account: %s", bcConf.Name, address)

	// load blockchain client
	bc, err := chain.Init(bcConf, hex.EncodeToString(key))
	if err != nil {
		panic(err)
	}

	log.Print("Blockchain client loaded")

	// the per-drip amount is fixed by configuration, converted to base units once
	amount, err := util.ToBaseUnits(bcConf.DripAmount, bcConf.Decimals)
	if err != nil {
		panic(err)
	}

	// load Prometheus monitor
	if *monitor {
		go func() {
			log.Println("Serving metrics API")

			h := http.NewServeMux()

			h.Handle("/metrics", promhttp.Handler())
			http.ListenAndServe(":9100", h)
		}()
	}

	// load message broker
	var mb msg.MsgBroker

	switch conf.MbType {
	case "amqp":
		if mb, err = amqp.New(conf.MbConn); err != nil {
			time.Sleep(10 * time.Second) // wait 10s for AMQP to be ready and try to reconnect

			if mb, err = amqp.New(conf.MbConn); err != nil {
				panic(err)
			}
		}

		if err = mb.Setup(nil); err != nil {
			panic(err)
		}
	default:
		log.Printf("Unknown message broker type: %s, drip events will not be published\n", conf.MbType)
	}

	// load captcha verifier
	verifier, err := captcha.New(conf.RecaptchaSecret)
	if err != nil {
		panic(err)
	}

	// start the nonce synchronization loop and wait for the first sync before serving
	nonces := dripper.NewNonceSource(bc, address)
	nonces.Start(dripper.NonceSyncInterval)

	log.Printf("[%s] Waiting for the first nonce sync", bcConf.Name)
	<-nonces.Ready()

	// assemble the drip workflow
	acc := dripper.NewAccount(bcConf.Name, address, bc, nonces)
	ledger := dripper.NewLedger(dbConn, time.Duration(conf.QuotaHours)*time.Hour)
	drip := dripper.NewHandler(acc, ledger, verifier, mb)

	// create faucet service
	f := faucet.New(bcConf.Name, amount, conf.DBType, dbConn, mb, bc, acc, drip)

	// capture CTRL+C or docker's SIGTERM for gracious exit
	finish := make(chan int)

	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Println("Program killed !")
		// do last actions and wait for all write operations to end
		nonces.Stop()
		bc.Close()
		f.Stop()
		close(finish)
	}()

	// init RESTful API, wait for its return and log response
	log.Printf("Faucet: %s\n", f.Init(conf.RestfulEndpoint, conf.Port, conf.SSLPort, conf.SSLCert, conf.SSLKey))

	<-finish
}
