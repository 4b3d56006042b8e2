// Package tcpserver provides the line-oriented TCP server for MiniKV.
//
// Clients connect over plain TCP and send one command per line. Each
// line is dispatched to the command interpreter and answered with a
// single reply line terminated by '\n'.
package tcpserver
