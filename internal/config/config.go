package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Viewer kinds.
const (
	ViewerWindow   = "window"
	ViewerTerminal = "terminal"
	ViewerNone     = "none"
)

// Export formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

var (
	viewerKinds   = []string{ViewerWindow, ViewerTerminal, ViewerNone}
	exportFormats = []string{FormatCSV, FormatJSON, FormatParquet}
	chartFormats  = []string{"png", "svg"}
)

// Config represents the application configuration.
type Config struct {
	Database Connection `mapstructure:"database" yaml:"database"`
	Output   Output     `mapstructure:"output" yaml:"output"`
	Reports  []string   `mapstructure:"reports" yaml:"reports,omitempty"`
}

// Connection describes the PostgreSQL session parameters.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
	// Params holds extra libpq parameters such as sslrootcert,
	// connect_timeout or options.
	Params map[string]string `mapstructure:"params" yaml:"params,omitempty"`
}

// Output controls where charts, exports and run history go.
type Output struct {
	Viewer        string   `mapstructure:"viewer" yaml:"viewer"`
	ChartDir      string   `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartFormat   string   `mapstructure:"chart_format" yaml:"chart_format"`
	ExportDir     string   `mapstructure:"export_dir" yaml:"export_dir,omitempty"`
	ExportFormats []string `mapstructure:"export_formats" yaml:"export_formats,omitempty"`
	HistoryPath   string   `mapstructure:"history_path" yaml:"history_path,omitempty"`
}

// DSN builds a PostgreSQL connection string from the connection profile.
// User and password are escaped, so passwords may contain any character.
func (c Connection) DSN() string {
	u := url.URL{
		Scheme: "postgresql",
		Host:   c.Host,
		Path:   "/" + c.Database,
	}
	if c.Port > 0 {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	q := url.Values{}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DisplayString returns a human-readable summary of the connection.
// It never includes the password.
func (c Connection) DisplayString() string {
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseDSN parses a PostgreSQL connection string into a Connection.
func ParseDSN(dsn string) (Connection, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Connection{}, fmt.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	}

	conn := Connection{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
	}

	for k, v := range u.Query() {
		if k == "sslmode" {
			conn.SSLMode = v[len(v)-1]
			continue
		}
		if conn.Params == nil {
			conn.Params = make(map[string]string)
		}
		conn.Params[k] = v[len(v)-1]
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, err = strconv.Atoi(portStr)
		if err != nil {
			return Connection{}, fmt.Errorf("invalid DSN port %q: %w", portStr, err)
		}
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}

	conn.Name = fmt.Sprintf("postgres-%s-%d-%s", conn.Host, conn.Port, conn.Database)

	return conn, nil
}

// Validate checks the connection parameters.
func (c Connection) Validate() error {
	var errs []error
	if c.Driver != "" && c.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("unsupported driver %q", c.Driver))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("database host is required"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database name is required"))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("database username is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("database port %d out of range", c.Port))
	}
	return errors.Join(errs...)
}

// Validate checks the whole configuration.
func (cfg *Config) Validate() error {
	errs := []error{cfg.Database.Validate()}

	if !slices.Contains(viewerKinds, cfg.Output.Viewer) {
		errs = append(errs, fmt.Errorf("unknown viewer %q (want one of %s)",
			cfg.Output.Viewer, strings.Join(viewerKinds, ", ")))
	}
	if !slices.Contains(chartFormats, cfg.Output.ChartFormat) {
		errs = append(errs, fmt.Errorf("unknown chart format %q (want one of %s)",
			cfg.Output.ChartFormat, strings.Join(chartFormats, ", ")))
	}
	for _, f := range cfg.Output.ExportFormats {
		if !slices.Contains(exportFormats, f) {
			errs = append(errs, fmt.Errorf("unknown export format %q (want one of %s)",
				f, strings.Join(exportFormats, ", ")))
		}
	}
	if len(cfg.Output.ExportFormats) > 0 && cfg.Output.ExportDir == "" {
		errs = append(errs, errors.New("export formats set without an export directory"))
	}
	return errors.Join(errs...)
}
