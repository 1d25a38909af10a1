package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/config"
	"github.com/Paintersrp/nnt/internal/constants"
	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/prefs"
	"github.com/Paintersrp/nnt/internal/render"
)

type State struct {
	Config       *config.Config
	Notebook     *config.Notebook
	NotebookName string
	Home         string
	StateDir     string
	Client       *api.Client
	Prefs        *prefs.Store
	Logger       *slog.Logger
	Style        string
	WordWrap     int

	logFile *os.File
}

func NewState(notebookOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if notebookOverride != "" {
		if err := cfg.ActivateNotebook(notebookOverride); err != nil {
			return nil, err
		}
	}

	nb, err := cfg.ActiveNotebook()
	if err != nil {
		return nil, err
	}

	stateDir, err := config.ResolveStateDir(cfg, home)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := openLogger(stateDir, logLevel())
	if err != nil {
		return nil, err
	}

	// NNT_URL and NNT_TOKEN win over the config file.
	url := viper.GetString("url")
	if url == "" {
		url = nb.URL
	}
	token := viper.GetString("token")
	if token == "" {
		token = nb.Token
	}

	client, err := api.New(url, api.WithToken(token), api.WithLogger(logger))
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("notebook %q: %w", cfg.CurrentNotebook, err)
	}

	style := viper.GetString("style")
	if style == "" {
		style = render.DefaultStyle
	}
	wrap := viper.GetInt("word_wrap")
	if wrap <= 0 {
		wrap = render.DefaultWidth
	}

	logger.Debug("state ready", "notebook", cfg.CurrentNotebook, "url", client.BaseURL())

	return &State{
		Config:       cfg,
		Notebook:     nb,
		NotebookName: cfg.CurrentNotebook,
		Home:         home,
		StateDir:     stateDir,
		Client:       client,
		Prefs:        prefs.Open(filepath.Join(stateDir, cfg.CurrentNotebook)),
		Logger:       logger,
		Style:        style,
		WordWrap:     wrap,
		logFile:      logFile,
	}, nil
}

// NewApp builds a notebook App talking to the state's server.
func (s *State) NewApp(sched notebook.Scheduler, obs notebook.Observer) *notebook.App {
	return notebook.New(notebook.Options{
		Backend:   s.Client,
		Scheduler: sched,
		Observer:  obs,
		Prefs:     s.Prefs,
		Logger:    s.Logger,
	})
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}

func logLevel() slog.Level {
	if viper.GetBool("debug") {
		return slog.LevelDebug
	}
	switch strings.ToLower(viper.GetString("log_level")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLogger writes to a log file in dir. The terminal belongs to the UI,
// so when the file cannot be opened logs are dropped.
func openLogger(dir string, level slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	f, err := os.OpenFile(
		filepath.Join(dir, constants.LogFile),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil, nil
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// Close flushes and releases the log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.logFile != nil {
		if err := s.logFile.Sync(); err != nil {
			errs = append(errs, err)
		}
		if err := s.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
		s.logFile = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
