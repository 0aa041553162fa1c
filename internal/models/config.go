package models

import "time"

// DriverConfig contains runtime options shared by session drivers.
type DriverConfig struct {
	Headless    bool
	ChromePath  string
	Proxy       string
	UserAgent   string
	PageTimeout time.Duration
}
