package config

import "fmt"

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type SFTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	PrivateKey     string `mapstructure:"private_key"`
	RemoteBasePath string `mapstructure:"remote_base_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (s *SFTPConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type JiraConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	Username         string `mapstructure:"username"`
	APIToken         string `mapstructure:"api_token"`
	Project          string `mapstructure:"project"`
	IssueType        string `mapstructure:"issue_type"`
	DoneTransitionID string `mapstructure:"done_transition_id"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

type MigrationConfig struct {
	PriorityMap       map[int]string `mapstructure:"priority_map"`
	DefaultPriority   string         `mapstructure:"default_priority"`
	OldHostPrefix     string         `mapstructure:"old_host_prefix"`
	NewHostPrefix     string         `mapstructure:"new_host_prefix"`
	LabelPrefix       string         `mapstructure:"label_prefix"`
	UploadWorkers     int            `mapstructure:"upload_workers"`
	ScratchDir        string         `mapstructure:"scratch_dir"`
	DisplayTimezone   string         `mapstructure:"display_timezone"`
	MaxDescriptionLen int            `mapstructure:"max_description_len"`
}
