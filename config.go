package csvkit

import (
	"fmt"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

// Config describes a Document's configuration in environment-variable
// form.
type Config struct {
	// Dialect bytes, each a single character; empty means the dialect
	// default (comma, double quote, backslash)
	Delimiter string `env:"CSVKIT_DELIMITER"`
	Enclosure string `env:"CSVKIT_ENCLOSURE"`
	Escape    string `env:"CSVKIT_ESCAPE"`

	// Record terminator on write: LF or CRLF
	Newline string `env:"CSVKIT_NEWLINE,default:LF"`

	// BOM policy
	DetectBOM bool   `env:"CSVKIT_DETECT_BOM,default:true"`
	OutputBOM string `env:"CSVKIT_OUTPUT_BOM"` // label or charset name, e.g. UTF-8

	// fopen-style open mode
	OpenMode string `env:"CSVKIT_OPEN_MODE,default:c+"`

	// Filters as a comma-separated list of chain entries, each
	// "name" or "name:key=value;key2=value2", applied on read and write
	Filters string `env:"CSVKIT_FILTERS"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromConfig creates a Document for the given resource reference with
// the configuration applied. Every config value is validated here, so a
// bad dialect byte, BOM label, open mode, or filter name surfaces before
// the resource is ever touched.
func NewFromConfig(ref any, cfg *Config) (*Document, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return New(ref, opts...)
}

// FromEnv creates a Document configured from environment variables
// (convenience constructor).
func FromEnv(ref any) (*Document, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ref, cfg)
}

func (cfg *Config) options() ([]Option, error) {
	var opts []Option

	b, err := dialectByte("delimiter", cfg.Delimiter, DefaultDelimiter)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithDelimiter(b))

	if b, err = dialectByte("enclosure", cfg.Enclosure, DefaultEnclosure); err != nil {
		return nil, err
	}
	opts = append(opts, WithEnclosure(b))

	if b, err = dialectByte("escape", cfg.Escape, DefaultEscape); err != nil {
		return nil, err
	}
	opts = append(opts, WithEscape(b))

	switch strings.ToUpper(cfg.Newline) {
	case "", "LF":
		opts = append(opts, WithNewline("\n"))
	case "CRLF":
		opts = append(opts, WithNewline("\r\n"))
	default:
		return nil, fmt.Errorf("%w: newline must be LF or CRLF, got %q", ErrInvalidArgument, cfg.Newline)
	}

	opts = append(opts, WithBOMDetection(cfg.DetectBOM))

	if cfg.OutputBOM != "" {
		bom, ok := bomByLabel(cfg.OutputBOM)
		if !ok {
			return nil, fmt.Errorf("%w: unknown BOM %q", ErrInvalidArgument, cfg.OutputBOM)
		}
		opts = append(opts, WithOutputBOM(bom))
	}

	if cfg.OpenMode != "" {
		opts = append(opts, WithOpenMode(cfg.OpenMode))
	}

	filterOpts, err := parseFilterSpec(cfg.Filters)
	if err != nil {
		return nil, err
	}
	opts = append(opts, filterOpts...)

	return opts, nil
}

func dialectByte(role, value string, fallback byte) (byte, error) {
	if value == "" {
		return fallback, nil
	}
	if len(value) != 1 {
		return 0, fmt.Errorf("%w: %s must be a single character, got %q", ErrInvalidArgument, role, value)
	}
	return value[0], nil
}

// parseFilterSpec parses the CSVKIT_FILTERS syntax:
// "zlib.gzip,convert.charset:from=ISO-8859-1;to=UTF-8".
func parseFilterSpec(spec string) ([]Option, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var opts []Option
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name := entry
		var params Params
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			name = entry[:idx]
			for _, pair := range strings.Split(entry[idx+1:], ";") {
				pair = strings.TrimSpace(pair)
				if pair == "" {
					continue
				}
				key, value, found := strings.Cut(pair, "=")
				if !found {
					return nil, fmt.Errorf("%w: filter parameter %q must be key=value", ErrInvalidArgument, pair)
				}
				params = params.Set(strings.TrimSpace(key), strings.TrimSpace(value))
			}
		}

		if !FilterRegistered(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
		}
		opts = append(opts, WithFilter(name, params, FilterBoth))
	}
	return opts, nil
}
