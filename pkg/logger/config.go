package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // slog text handler, dev default
	BackendZap Backend = "zap" // zap JSON core behind slog, prod default
)

type Config struct {
	// Metadata attached to every record
	Service    string
	Version    string
	InstanceID string

	// Output control
	Level   slog.Level
	Env     Env
	Backend Backend
	Debug   bool

	// Zap burst sampling
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
