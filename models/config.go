package models

// MissionsConfig represents the structure of config/missions_config.json.
// It's a map where keys are guild IDs.
type MissionsConfig map[string]GuildMissionConfig

// GuildMissionConfig is the per-guild wiring for the submission workflow.
type GuildMissionConfig struct {
	Name string `json:"name" mapstructure:"name"`
	// Parent channel whose threads are monitored for submissions.
	MissionChannelID string `json:"mission_channel_id" mapstructure:"mission_channel_id"`
	// Channel mission announcements are posted to. Optional.
	AnnounceChannelID string `json:"announce_channel_id" mapstructure:"announce_channel_id"`
}

// CommandsConfig represents the "commands" section of config.yaml.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig holds the identities and roles used for permission checks.
type AuthConfig struct {
	Developers []string `json:"developers" mapstructure:"developers"`
	AdminRoles []string `json:"admin_roles" mapstructure:"admin_roles"`
	JudgeRoles []string `json:"judge_roles" mapstructure:"judge_roles"`
}

// ExportConfig represents the "export" section of config.yaml. Export is
// considered configured when SpreadsheetID is non-empty.
type ExportConfig struct {
	SpreadsheetID   string `json:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	CredentialsFile string `json:"credentials_file" mapstructure:"credentials_file"`
}
