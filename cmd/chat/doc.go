// Package `chat` implements combined terminal chat application: it runs the chat server,
// the chat client or both of them.
//
//	chat -b localhost:20000              # server and client
//	chat -b localhost:20000 -s           # server only
//	chat -b localhost:20000 -c -name bob # client only
//
// Client name is taken from -name flag, CHAT_NAME variable or asked on the terminal.
package main
