package model

type AIConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

type RoomConfig struct {
	MongoURI string `yaml:"mongo_uri"`
	Database string `yaml:"database"`
}

type SyncConfig struct {
	Enable     bool   `yaml:"enable"`
	Platform   string `yaml:"platform"`
	Bucket     string `yaml:"bucket"`
	AWSProfile string `yaml:"aws_profile"`
	AWSRegion  string `yaml:"aws_region"`
}

type Config struct {
	DataDir  string     `yaml:"data_dir"`
	Editor   string     `yaml:"editor"`
	Language string     `yaml:"language"` // ja / en
	AI       AIConfig   `yaml:"ai"`
	Room     RoomConfig `yaml:"room"`
	Sync     SyncConfig `yaml:"sync"`
}

func DefaultConfig() Config {
	return Config{
		DataDir:  "~/.config/pick3/data",
		Editor:   "vim",
		Language: "ja",
		AI: AIConfig{
			Model: "gemini-2.0-flash",
		},
		Room: RoomConfig{
			MongoURI: "mongodb://localhost:27017",
			Database: "pick3",
		},
		Sync: SyncConfig{
			Enable:    false,
			Platform:  "aws",
			AWSRegion: "ap-northeast-1",
		},
	}
}
