// Package confloader provides configuration loading for minikv.
//
// It uses koanf to merge configuration from multiple sources with the
// priority env > file > defaults, and a fsnotify-based watcher so the
// log level can be adjusted without a restart.
package confloader
