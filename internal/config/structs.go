package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Admin     Admin
	AzureAD   AzureAD `mapstructure:"AzureADOpenIdConnect" json:"AzureADOpenIdConnect" toml:"AzureADOpenIdConnect"`
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown in seconds
	URL            string  // base url for the webserver
	MetricsPath    string  // path of the prometheus endpoint, empty disables it
	Session        Session // session settings
}

// Admin is the local administrator created on an empty database.
type Admin struct {
	Username string
	Email    string
	Password string
}
