// Package `chatsrv` implements server application for chat over TCP.
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Launch server bound to the address:
//
//	chatsrv -b localhost:20000
//
// Tunables are read from the environment (and optional .env file):
// LOG_LEVEL, CHAT_TICK, CHAT_SHUTDOWN_DELAY, CHAT_READ_SIZE, CHAT_WRITE_TIMEOUT,
// CHAT_NAME_TIMEOUT, CHAT_HISTORY_GREETS, CHAT_CENSORED_WORDS, CHAT_CENSOR_CHAR.
package main
