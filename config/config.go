// Package config loads the YAML configuration file and the .env file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker"
)

// Config is the content of the configuration file. Command line flags take precedence.
type Config struct {
	Broker broker.Config `yaml:"broker"`
	// Queues drained.
	Queues []string `yaml:"queues"`
	// Declare lists the queues declared on the target before replaying.
	Declare []Queue `yaml:"declare"`
	// Mapping renames queues on replay.
	Mapping map[string]string `yaml:"mapping"`

	Drain  Drain  `yaml:"drain"`
	Replay Replay `yaml:"replay"`
	Log    Log    `yaml:"log"`
	S3     S3     `yaml:"s3"`

	Pushgateway string `yaml:"pushgateway"`
}

// Queue is a pre declared queue, durable unless stated otherwise.
type Queue struct {
	Name       string `yaml:"name"`
	Durable    *bool  `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// Declaration returns the queue declaration.
func (q Queue) Declaration() mqbackup.QueueDeclaration {
	opts := mqbackup.DefaultQueueOptions()
	if q.Durable != nil {
		opts.Durable = *q.Durable
	}
	opts.AutoDelete = q.AutoDelete

	return mqbackup.QueueDeclaration{Name: q.Name, Options: opts}
}

// Drain holds the drain settings.
type Drain struct {
	Output      string `yaml:"output"`
	Workers     int    `yaml:"workers"`
	MaxPerQueue int    `yaml:"max_per_queue"`
}

// Replay holds the replay settings.
type Replay struct {
	Input    string        `yaml:"input"`
	Workers  int           `yaml:"workers"`
	Retries  *int          `yaml:"retries"`
	Backoff  time.Duration `yaml:"backoff"`
	Rate     float64       `yaml:"rate"`
	FailFast bool          `yaml:"fail_fast"`
	// Durable and AutoDelete are the options of the queues created on first use.
	Durable    *bool `yaml:"durable"`
	AutoDelete bool  `yaml:"auto_delete"`
}

// Log holds the logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// S3 overrides the aws settings of the record file bucket.
type S3 struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Load reads the YAML file, expanding ${VAR} environment references. Unknown fields are
// a mqbackup.ConfigurationError.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("reading config: %w", err)}
	}

	return Parse(bytes.NewReader(b))
}

// Parse decodes the YAML configuration from r.
func Parse(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(b)))))
	dec.KnownFields(true)

	var conf Config
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("decoding config: %w", err)}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// Validate checks the queue names and declarations.
func (c *Config) Validate() error {
	for _, q := range c.Queues {
		if err := mqbackup.ValidateQueueName(q); err != nil {
			return &mqbackup.ConfigurationError{Queue: q, Err: err}
		}
	}
	for _, q := range c.Declare {
		if err := mqbackup.ValidateQueueName(q.Name); err != nil {
			return &mqbackup.ConfigurationError{Queue: q.Name, Err: err}
		}
	}
	for src, dst := range c.Mapping {
		if err := mqbackup.ValidateQueueName(dst); err != nil {
			return &mqbackup.ConfigurationError{Queue: src, Err: fmt.Errorf("mapping: %w", err)}
		}
	}

	return nil
}

// Declarations returns the pre declared queues.
func (c *Config) Declarations() []mqbackup.QueueDeclaration {
	decls := make([]mqbackup.QueueDeclaration, 0, len(c.Declare))
	for _, q := range c.Declare {
		decls = append(decls, q.Declaration())
	}

	return decls
}

// LoadEnv loads the .env files into the environment without overriding the variables
// already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &mqbackup.ConfigurationError{Err: fmt.Errorf("loading %s: %w", p, err)}
		}
	}

	return nil
}
