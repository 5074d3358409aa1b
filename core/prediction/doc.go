// Package prediction defines the model boundary: the opaque, pre-trained
// capability that maps a feature record to predicted hourly usage in kWh.
// Implementations are loaded once at startup and shared by every request, so
// they must be safe for concurrent read-only use.
package prediction
