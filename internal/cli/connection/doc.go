// Package connection provides the TCP client used by minikv-cli.
package connection
