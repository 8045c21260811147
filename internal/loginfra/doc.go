// Package loginfra adapts structured logging to the repository layer's
// failure recorder port.
package loginfra
