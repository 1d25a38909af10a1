package constants

const (
	Version        = `0.1.0`
	AppName        = `nnt`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.nnt/`
	StateDirName   = `state`
	LogFile        = `nnt.log`
	EnvPrefix      = `NNT`

	DefaultNotebook = `default`
)
