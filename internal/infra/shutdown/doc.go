// Package shutdown provides graceful shutdown handling for minikv.
//
// A Handler collects shutdown hooks during startup and runs them in
// reverse order when SIGINT/SIGTERM arrives or Trigger is called,
// bounded by a single timeout.
package shutdown
