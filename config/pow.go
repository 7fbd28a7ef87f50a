package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	HashBlake3   = "blake3"
	HashArgon2id = "argon2id"
)

var ErrUnknownHash = errors.New("unknown hash")

type Pow struct {
	Cost         uint32        `yaml:"cost" env:"POW_COST" env-default:"20" env-description:"required leading zero bits"`
	Meter        uint32        `yaml:"meter" env:"POW_METER" env-default:"100000000" env-description:"maximum failed attempts per search"`
	Hash         string        `yaml:"hash" env:"POW_HASH" env-default:"blake3" env-description:"blake3 or argon2id"`
	SolveTimeout time.Duration `yaml:"solve_timeout" env:"POW_SOLVE_TIMEOUT" env-default:"1m"`
	Argon2       Argon2        `yaml:"argon2"`
}

type Argon2 struct {
	Time    uint32 `yaml:"time" env:"ARGON2_TIME" env-default:"1"`
	Memory  uint32 `yaml:"memory" env:"ARGON2_MEMORY" env-default:"8192" env-description:"KiB per evaluation"`
	Threads uint8  `yaml:"threads" env:"ARGON2_THREADS" env-default:"1"`
}

func (p Pow) validate() error {
	switch p.Hash {
	case HashBlake3, HashArgon2id:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownHash, p.Hash)
	}
}
