package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // text handler on stdout
	BackendZap Backend = "zap" // zap core behind a slog bridge
)

type Config struct {
	// identity attrs stamped on every record
	Service    string
	Version    string
	InstanceID string

	// output control
	Level   slog.Level
	Env     Env
	Backend Backend // default: zap for stage/prod, std for dev
	Debug   bool

	// zap burst sampling
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
