package cookingagent

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.7"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	ArtifactsToolSetPath string `env:"ARTIFACTS_TOOLSET_PATH,default=artifacts/toolset.json"`
	SearchEndpoint       string `env:"SEARCH_ENDPOINT,default=https://api.duckduckgo.com"`
	MaxSearchResults     int    `env:"MAX_SEARCH_RESULTS,default=3"`
	SlackWebhookURL      string `env:"SLACK_WEBHOOK_URL,default="`
	SlackChannel         string `env:"SLACK_CHANNEL,default=#cooking-assistant"`
}

type ServerConfig struct {
	Addr            string `env:"SERVER_ADDR,default=:8080"`
	ReadTimeoutSec  int    `env:"SERVER_READ_TIMEOUT_SEC,default=15"`
	WriteTimeoutSec int    `env:"SERVER_WRITE_TIMEOUT_SEC,default=120"`
}
