// Package faucet and its sub-packages implement a token-faucet backend that disburses small amounts of a
// blockchain's currency or fungible assets to requesting addresses.
/*
The faucet provides one microservice:

a faucet microservice (package faucet) that implements a RESTful API for user requests such as checking the
faucet account's balance and requesting a drip (one disbursement) to an address, protected by a captcha and a
per-address daily quota.

Architecture

The heart of the service is the dripper (package dripper). It owns the faucet account's transaction sequence
number (nonce) and serializes all submissions through it, so concurrent requests never race the background
nonce resynchronization that keeps the local counter aligned with the network. The dripper also enforces
eligibility: a captcha validation (package lib/captcha) and a quota ledger that remembers, per asset, which
addresses have drawn within the lookback window. The ledger stores only a one-way digest of each address,
never the address itself.

Persistence is layered (package lib/store) behind a database product agnostic interface with PostgreSQL and
MongoDB implementations, configured via a JSON config file at service startup.

A blockchain layer (package lib/chain) defines the adapter contract the dripper depends on, so new networks
can be developed and added. The service connects to the network indicated in the JSON config file provided at
startup.

Successful drips are published to a message broker (package lib/msg) so front-ends or monitoring consumers can
follow disbursements in real time. The broker layer is product agnostic with an AMQP implementation.

The microservice can also be monitored via a Prometheus API by setting the flag "-m" at startup.

Faucet

The faucet microservice (package faucet) can be started running cmd/faucet/main.go or using Dockerfile.faucet.
It exposes an HTTP RESTful API with endpoints to query the faucet balance per asset, request a drip and check
service health. Drip requests are answered with the submitted transaction hash, or a structured error when the
captcha fails, the quota is exhausted, the asset is unknown or the faucet balance is insufficient.

*/
package faucet
