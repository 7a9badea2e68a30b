package config

// Source names the layer a resolved value came from. Later layers win:
// default, global, local, env, flag.
type Source string

const (
	SourceDefault Source = "default" // built into Defaults
	SourceGlobal  Source = "global"  // ~/.config/issueflow/config.yaml
	SourceLocal   Source = "local"   // .issueflow.yaml at the git root
	SourceEnv     Source = "env"     // one of EnvNames
	SourceFlag    Source = "flag"    // command-line flag
)
