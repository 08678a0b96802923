package webserver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/fileutil"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/typeutil"
	yaml "gopkg.in/yaml.v2"
)

const (
	ApplicationName    = `webserver`
	ApplicationSummary = `A small HTTP/HTTPS file server with inline-scripted templates and plugin handlers.`
	ApplicationVersion = `1.0.0`
)

var DefaultConfigFile = `webserver.yml`
var DefaultHost = `localhost`
var DefaultPort = 8080
var DefaultEntry = `RequestHandler`
var DefaultMaxPasses = 8
var DefaultSysnameCommand = `uname -a`
var DefaultTemplatePatterns = []string{`*.tmpl`}
var DefaultIndexFiles = []string{`index.html`, `index.htm`, `default.htm`}

var rxEntryName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)

// Config holds the resolved startup options.  It is populated from an optional YAML file and
// command line flags before the server is created, and is treated as read-only afterwards.
type Config struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	HTTPS            bool          `yaml:"https"`
	CertFile         string        `yaml:"cert"`
	KeyFile          string        `yaml:"key"`
	WebDir           string        `yaml:"webdir"`
	Plugin           string        `yaml:"plugin"`
	Entry            string        `yaml:"entry"`
	LogLevel         string        `yaml:"log_level"`
	Extra            []string      `yaml:"extra"`
	TemplatePatterns []string      `yaml:"template_patterns"`
	IndexFiles       []string      `yaml:"index_files"`
	MaxPasses        int           `yaml:"max_passes"`
	Concurrent       bool          `yaml:"concurrent"`
	NoCache          bool          `yaml:"nocache"`
	CommandTimeout   time.Duration `yaml:"command_timeout"`
	SysnameCommand   string        `yaml:"sysname_command"`
}

func DefaultConfig() *Config {
	var cwd, _ = os.Getwd()

	return &Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		WebDir:           cwd,
		Entry:            DefaultEntry,
		LogLevel:         `info`,
		TemplatePatterns: DefaultTemplatePatterns,
		IndexFiles:       DefaultIndexFiles,
		MaxPasses:        DefaultMaxPasses,
		SysnameCommand:   DefaultSysnameCommand,
	}
}

// Load the YAML configuration file at the given path over top of the current values.  A
// missing file is not an error.
func (self *Config) LoadFile(filename string) error {
	if filename == `` || !fileutil.FileExists(filename) {
		return nil
	}

	if data, err := os.ReadFile(filename); err == nil {
		if err := yaml.Unmarshal(data, self); err == nil {
			log.Debugf("config: loaded %s", filename)
			return nil
		} else {
			return fmt.Errorf("parse %s: %v", filename, err)
		}
	} else {
		return err
	}
}

// Check the configuration for conditions that must prevent the server from starting.
func (self *Config) Validate() error {
	if self.Port < 1 || self.Port > 65535 {
		return fmt.Errorf("port must be in the range [1..65535], got %d", self.Port)
	}

	if self.WebDir == `` {
		return fmt.Errorf("a web directory must be specified")
	} else if abs, err := filepath.Abs(self.WebDir); err == nil {
		self.WebDir = abs
	} else {
		return err
	}

	if !fileutil.DirExists(self.WebDir) {
		return fmt.Errorf("web directory %s does not exist or is not a directory", self.WebDir)
	}

	if !rxEntryName.MatchString(self.Entry) {
		return fmt.Errorf("entry %q is not a valid function name", self.Entry)
	}

	if self.HTTPS {
		if self.CertFile == `` {
			return fmt.Errorf("HTTPS must have a cert file (--cert)")
		} else if !fileutil.FileExists(self.CertFile) {
			return fmt.Errorf("certificate file %s does not exist", self.CertFile)
		}
	} else if self.CertFile != `` {
		log.Warningf("Cert file specified but --https was not specified, did you mean to specify --https?")
	}

	if self.MaxPasses < 0 {
		return fmt.Errorf("max_passes cannot be negative")
	}

	return nil
}

// Return the protocol tag for this configuration (HTTP or HTTPS).
func (self *Config) Protocol() string {
	if self.HTTPS {
		return `HTTPS`
	} else {
		return `HTTP`
	}
}

// Return the externally-visible URL prefix (e.g. http://localhost:8080).
func (self *Config) URLPrefix() string {
	return fmt.Sprintf("%s://%s:%d", strings.ToLower(self.Protocol()), self.Host, self.Port)
}

// Return the address the server listens on.
func (self *Config) Address() string {
	return fmt.Sprintf("%s:%d", self.Host, self.Port)
}

// Return the private key file for HTTPS.  When no key is given, the certificate file is
// expected to contain both the certificate and the key.
func (self *Config) TLSKeyFile() string {
	return typeutil.OrString(self.KeyFile, self.CertFile)
}

// Return all options as key/value pairs sorted case-insensitively by name.
func (self *Config) Options() []KV {
	var options = []KV{
		{K: `cert`, V: self.CertFile},
		{K: `command_timeout`, V: self.CommandTimeout},
		{K: `concurrent`, V: self.Concurrent},
		{K: `entry`, V: self.Entry},
		{K: `extra`, V: self.Extra},
		{K: `host`, V: self.Host},
		{K: `https`, V: self.HTTPS},
		{K: `index_files`, V: self.IndexFiles},
		{K: `key`, V: self.KeyFile},
		{K: `log_level`, V: self.LogLevel},
		{K: `max_passes`, V: self.MaxPasses},
		{K: `nocache`, V: self.NoCache},
		{K: `plugin`, V: self.Plugin},
		{K: `port`, V: self.Port},
		{K: `sysname_command`, V: self.SysnameCommand},
		{K: `template_patterns`, V: self.TemplatePatterns},
		{K: `webdir`, V: self.WebDir},
	}

	sortKV(options)
	return options
}

type KV struct {
	K string `json:"key"`
	V any    `json:"value"`
}

func sortKV(kv []KV) {
	sort.SliceStable(kv, func(i int, j int) bool {
		return strings.ToLower(kv[i].K) < strings.ToLower(kv[j].K)
	})
}
