package services

import "fmt"

// Error types untuk alur pembayaran. Caller membedakan jenis kegagalan
// lewat errors.As, bukan string matching.

// ValidationError berarti request ditolak sebelum ada network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConfigError berarti kredensial/konfigurasi gateway tidak lengkap
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// GatewayError adalah respons non-2xx dari Midtrans. Body disimpan utuh
// karena orchestrator perlu mengenali pesan konflik di dalamnya.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("Midtrans API error (status %d): %s", e.StatusCode, e.Body)
}

// TransportError adalah kegagalan jaringan sebelum ada respons HTTP
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error making request: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PersistenceError berarti transaksi gateway berhasil dibuat tetapi
// penulisan ke database gagal; state lokal dan gateway bisa berbeda.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist payment state: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
