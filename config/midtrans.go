package config

import (
	"fmt"
	"os"
)

// MidtransConfig holds Midtrans configuration.
// Dibangun sekali di main lalu diberikan eksplisit ke service yang butuh,
// supaya test bisa menyuntikkan kredensial palsu tanpa menyentuh environment.
type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool

	// Base URL override untuk test; kosong = endpoint Midtrans sesuai environment.
	SnapBaseURL string
	APIBaseURL  string
}

// LoadMidtransConfig membaca konfigurasi Midtrans dari environment
func LoadMidtransConfig() *MidtransConfig {
	return &MidtransConfig{
		ServerKey:    os.Getenv("MIDTRANS_SERVER_KEY"),
		ClientKey:    os.Getenv("MIDTRANS_CLIENT_KEY"),
		IsProduction: os.Getenv("MIDTRANS_ENV") == "production",
	}
}

// Validate memastikan kredensial yang wajib sudah terisi
func (mc *MidtransConfig) Validate() error {
	if mc.ServerKey == "" {
		return fmt.Errorf("MIDTRANS_SERVER_KEY is not set")
	}
	if mc.ClientKey == "" {
		return fmt.Errorf("MIDTRANS_CLIENT_KEY is not set")
	}
	return nil
}

// SnapBase mengembalikan base URL untuk Snap API
func (mc *MidtransConfig) SnapBase() string {
	if mc.SnapBaseURL != "" {
		return mc.SnapBaseURL
	}
	if mc.IsProduction {
		return "https://app.midtrans.com"
	}
	return "https://app.sandbox.midtrans.com"
}

// APIBase mengembalikan base URL untuk Core API (status lookup)
func (mc *MidtransConfig) APIBase() string {
	if mc.APIBaseURL != "" {
		return mc.APIBaseURL
	}
	if mc.IsProduction {
		return "https://api.midtrans.com"
	}
	return "https://api.sandbox.midtrans.com"
}
