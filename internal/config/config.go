// Package config defines the canonical, JSON-serializable configuration model
// for the pipeline. It is intentionally small and explicit so that runs can be
// configured from a file on disk, from flags, or from both.
//
// Field names in Go mirror the JSON structure used in run files, e.g.:
//
//	{
//	  "job":    "fleximart-daily",
//	  "region": "IN",
//	  "data":   { "dir": "data" },
//	  "output": { "report": "data_quality_report.txt" },
//	  "storage":{ "kind": "mysql", "auto_create": true }
//	}
//
// Database credentials deliberately live outside the run file: they are read
// from the environment (optionally seeded from a .env file) so config files
// can be committed without secrets.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Pipeline describes one full run: input files, output artifacts, and the
// warehouse target.
type Pipeline struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Region is the default phone-number region for inputs without an
	// international prefix, e.g. "IN".
	Region string `json:"region"`

	Data    Data    `json:"data"`
	Output  Output  `json:"output"`
	Storage Storage `json:"storage"`
	Metrics Metrics `json:"metrics"`
}

// Data locates the three input CSVs. File names are relative to Dir.
type Data struct {
	Dir       string `json:"dir"`
	Customers string `json:"customers"`
	Products  string `json:"products"`
	Sales     string `json:"sales"`
}

// Output names the derived artifacts. Paths are relative to Data.Dir unless
// absolute.
type Output struct {
	Orders     string `json:"orders"`
	OrderItems string `json:"order_items"`
	Report     string `json:"report"`
}

// Storage selects the warehouse backend.
type Storage struct {
	// Kind selects the backend: "postgres", "mysql", "sqlite", "mssql".
	// Empty disables the load stage entirely.
	Kind string `json:"kind"`

	// DSN is the full connection string. When empty it is assembled from the
	// DB_* environment variables by ResolveDSN.
	DSN string `json:"dsn"`

	// EnvFile optionally names a dotenv file to seed the environment from
	// before reading DB_* variables. Defaults to ".env" when empty; a missing
	// file is not an error.
	EnvFile string `json:"env_file"`

	// AutoCreate runs the schema bootstrap before loading.
	AutoCreate bool `json:"auto_create"`
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	// Backend: "" or "none" (no-op), "prompush", "datadog".
	Backend string `json:"backend"`

	// PushgatewayURL is required for the "prompush" backend.
	PushgatewayURL string `json:"pushgateway_url"`

	// StatsdAddr is required for the "datadog" backend, e.g. "127.0.0.1:8125".
	StatsdAddr string `json:"statsd_addr"`
}

// Default returns the configuration used when no run file is given.
func Default() Pipeline {
	return Pipeline{
		Job:    "fleximart",
		Region: "IN",
		Data: Data{
			Dir:       "data",
			Customers: "customers_raw.csv",
			Products:  "products_raw.csv",
			Sales:     "sales_raw.csv",
		},
		Output: Output{
			Orders:     "orders.csv",
			OrderItems: "order_items.csv",
			Report:     "data_quality_report.txt",
		},
		Storage: Storage{
			Kind:       "mysql",
			AutoCreate: true,
		},
	}
}

// Load decodes a Pipeline from a JSON file, applying defaults for fields the
// file leaves unset.
func Load(path string) (Pipeline, error) {
	p := Default()
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return p, nil
}

// ResolveDSN returns the connection string for s. An explicit DSN wins;
// otherwise the DB_HOST, DB_USER, DB_PASS, DB_NAME (and optional DB_PORT)
// environment variables are assembled into a backend-specific DSN. The
// environment is seeded from EnvFile first, when present on disk.
func (s Storage) ResolveDSN() (string, error) {
	if s.DSN != "" {
		return s.DSN, nil
	}

	envFile := s.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Missing dotenv file is fine; the variables may be set directly.
	_ = godotenv.Load(envFile)

	if s.Kind == "sqlite" {
		if name := os.Getenv("DB_NAME"); name != "" {
			return name, nil
		}
		return "", fmt.Errorf("config: sqlite backend needs a dsn or DB_NAME")
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	if host == "" || user == "" || name == "" {
		return "", fmt.Errorf("config: %s backend needs a dsn or DB_HOST, DB_USER and DB_NAME in the environment", s.Kind)
	}
	port := os.Getenv("DB_PORT")

	switch s.Kind {
	case "postgres":
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, pass),
			Host:   host + ":" + port,
			Path:   "/" + name,
		}
		return u.String(), nil
	case "mysql":
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, name), nil
	case "mssql":
		if port == "" {
			port = "1433"
		}
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(user, pass),
			Host:     host + ":" + port,
			RawQuery: "database=" + url.QueryEscape(name),
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("config: cannot build a DSN for storage kind %q", s.Kind)
}
