package types

import "errors"

// Config holds backend parameters for Backend.Attach and the serve command.
type Config struct {
	DataDir string `json:"data_dir" yaml:"data_dir"`
	Addr    string `json:"addr" yaml:"addr"`
}

// Config validation errors.
var (
	ErrAddrEmpty = errors.New("addr must not be empty")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrAddrEmpty
	}
	return nil
}
