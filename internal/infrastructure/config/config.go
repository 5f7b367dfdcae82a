package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFileName = "config.yml"
	defaultConfigDirName  = ".config/taskdeck"
	defaultDataDirName    = ".local/share/taskdeck"
	defaultStoreDirName   = "store"
	defaultLogFileName    = "taskdeck.log"

	defaultBaseURL    = "http://localhost:3000/api"
	defaultListenAddr = ":3000"
)

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds application configuration
type Config struct {
	Remote      RemoteConfig      `yaml:"remote"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Notices     NoticesConfig     `yaml:"notices"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
}

// RemoteConfig points the client at the task store
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 means no timeout
}

// ServerConfig configures the bundled reference store
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stderr
}

// NoticesConfig holds how long transient notices stay visible
type NoticesConfig struct {
	InfoTTL  time.Duration `yaml:"info_ttl"`
	ErrorTTL time.Duration `yaml:"error_ttl"`
}

// TUIConfig holds TUI styling configuration
type TUIConfig struct {
	Theme  string       `yaml:"theme"`
	Styles StylesConfig `yaml:"styles"`
}

// StylesConfig holds color and styling configuration
type StylesConfig struct {
	Column           ColumnStyle    `yaml:"column"`
	FocusedColumn    ColumnStyle    `yaml:"focused_column"`
	DropTarget       ColumnStyle    `yaml:"drop_target"`
	ColumnTitle      TextStyle      `yaml:"column_title"`
	Task             TextStyle      `yaml:"task"`
	TaskCard         TaskCardStyle  `yaml:"task_card"`
	SelectedTaskCard TaskCardStyle  `yaml:"selected_task_card"`
	DraggedTaskCard  TaskCardStyle  `yaml:"dragged_task_card"`
	Tag              TextStyle      `yaml:"tag"`
	DueDate          TextStyle      `yaml:"due_date"`
	Help             TextStyle      `yaml:"help"`
	Priority         PriorityColors `yaml:"priority"`
	InfoNotice       TextStyle      `yaml:"info_notice"`
	ErrorNotice      TextStyle      `yaml:"error_notice"`
	Modal            ColumnStyle    `yaml:"modal"`
	DarkForeground   string         `yaml:"dark_foreground"`
	LightForeground  string         `yaml:"light_foreground"`
}

// ColumnStyle represents bordered box styling
type ColumnStyle struct {
	PaddingVertical   int    `yaml:"padding_vertical"`
	PaddingHorizontal int    `yaml:"padding_horizontal"`
	BorderStyle       string `yaml:"border_style"`
	BorderColor       string `yaml:"border_color"`
}

// TextStyle represents text styling
type TextStyle struct {
	Foreground        string `yaml:"foreground,omitempty"`
	Background        string `yaml:"background,omitempty"`
	Bold              bool   `yaml:"bold,omitempty"`
	Italic            bool   `yaml:"italic,omitempty"`
	PaddingVertical   int    `yaml:"padding_vertical,omitempty"`
	PaddingHorizontal int    `yaml:"padding_horizontal,omitempty"`
	Align             string `yaml:"align,omitempty"`
}

// TaskCardStyle represents task card border styling
type TaskCardStyle struct {
	BorderColor string `yaml:"border_color"`
}

// PriorityColors holds colors for different priority levels
type PriorityColors struct {
	High   string `yaml:"high"`
	Medium string `yaml:"medium"`
	Low    string `yaml:"low"`
}

// KeybindingsConfig holds keybinding configuration
type KeybindingsConfig struct {
	Up       []string `yaml:"up"`
	Down     []string `yaml:"down"`
	Left     []string `yaml:"left"`
	Right    []string `yaml:"right"`
	Drag     []string `yaml:"drag"`
	Drop     []string `yaml:"drop"`
	Cancel   []string `yaml:"cancel"`
	Add      []string `yaml:"add"`
	Edit     []string `yaml:"edit"`
	Delete   []string `yaml:"delete"`
	Trash    []string `yaml:"trash"`
	Restore  []string `yaml:"restore"`
	Search   []string `yaml:"search"`
	Priority []string `yaml:"priority"`
	Theme    []string `yaml:"theme"`
	Refresh  []string `yaml:"refresh"`
	Quit     []string `yaml:"quit"`
}

// Loader handles loading and saving configuration
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader for the default location
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, defaultConfigDirName)
	configPath := filepath.Join(configDir, defaultConfigFileName)

	return &Loader{
		configPath: configPath,
	}, nil
}

// NewLoaderAt creates a config loader for an explicit file
func NewLoaderAt(path string) *Loader {
	return &Loader{configPath: path}
}

// Load returns the effective configuration: the file, created with defaults
// if missing, with environment overrides applied on top.
func (l *Loader) Load() (*Config, error) {
	config, err := l.LoadFile()
	if err != nil {
		return nil, err
	}
	applyEnv(config)
	return config, nil
}

// LoadFile returns the configuration as stored, without environment
// overrides. Keys missing from the file keep their defaults.
func (l *Loader) LoadFile() (*Config, error) {
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return l.createDefaultConfig()
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save persists the configuration to disk
func (l *Loader) Save(config *Config) error {
	configDir := filepath.Dir(l.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates and saves a default configuration
func (l *Loader) createDefaultConfig() (*Config, error) {
	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	if err := l.Save(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetConfigPath returns the path to the config file
func (l *Loader) GetConfigPath() string {
	return l.configPath
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, defaultDataDirName)

	return &Config{
		Remote: RemoteConfig{
			BaseURL: defaultBaseURL,
		},
		Server: ServerConfig{
			ListenAddr: defaultListenAddr,
			DataDir:    filepath.Join(dataDir, defaultStoreDirName),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, defaultLogFileName),
		},
		Notices: NoticesConfig{
			InfoTTL:  2 * time.Second,
			ErrorTTL: 5 * time.Second,
		},
		TUI: TUIConfig{
			Theme: ThemeDark,
			Styles: StylesConfig{
				Column: ColumnStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "rounded",
					BorderColor:       "240",
				},
				FocusedColumn: ColumnStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "rounded",
					BorderColor:       "62",
				},
				DropTarget: ColumnStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "double",
					BorderColor:       "#FFE66D",
				},
				ColumnTitle: TextStyle{
					Foreground: "99",
					Bold:       true,
					Align:      "center",
				},
				Task: TextStyle{
					PaddingHorizontal: 1,
				},
				TaskCard: TaskCardStyle{
					BorderColor: "#444444",
				},
				SelectedTaskCard: TaskCardStyle{
					BorderColor: "#A8DADC",
				},
				DraggedTaskCard: TaskCardStyle{
					BorderColor: "#FFE66D",
				},
				Tag: TextStyle{
					Foreground: "#A8DADC",
				},
				DueDate: TextStyle{
					Foreground: "#999999",
				},
				Help: TextStyle{
					Foreground:        "241",
					PaddingVertical:   1,
					PaddingHorizontal: 2,
				},
				Priority: PriorityColors{
					High:   "#FF6B6B",
					Medium: "#FFE66D",
					Low:    "#95E1D3",
				},
				InfoNotice: TextStyle{
					Foreground:        "#1B1B1B",
					Background:        "#95E1D3",
					Bold:              true,
					PaddingHorizontal: 1,
				},
				ErrorNotice: TextStyle{
					Foreground:        "#FFFFFF",
					Background:        "#C0392B",
					Bold:              true,
					PaddingHorizontal: 1,
				},
				Modal: ColumnStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "rounded",
					BorderColor:       "62",
				},
				DarkForeground:  "252",
				LightForeground: "235",
			},
		},
		Keybindings: KeybindingsConfig{
			Up:       []string{"up", "k"},
			Down:     []string{"down", "j"},
			Left:     []string{"left", "h"},
			Right:    []string{"right", "l"},
			Drag:     []string{" ", "m"},
			Drop:     []string{"enter"},
			Cancel:   []string{"esc"},
			Add:      []string{"a"},
			Edit:     []string{"e"},
			Delete:   []string{"d"},
			Trash:    []string{"t"},
			Restore:  []string{"r"},
			Search:   []string{"/"},
			Priority: []string{"p"},
			Theme:    []string{"T"},
			Refresh:  []string{"R"},
			Quit:     []string{"q", "ctrl+c"},
		},
	}, nil
}
