// Package infra contains technical adapters: model artifact loading, the
// averages table, MQTT publishing and metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
