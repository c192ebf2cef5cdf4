package conf

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Firewatch *Firewatch `json:"firewatch"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Firewatch struct {
	Feed      *Feed      `json:"feed"`
	Query     *Query     `json:"query"`
	Analysis  *Analysis  `json:"analysis"`
	Providers *Providers `json:"providers"`
	Log       *Log       `json:"log"`
	Session   *Session   `json:"session"`
}

type Feed struct {
	Endpoint  string  `json:"endpoint"`
	Language  string  `json:"language"`
	Region    string  `json:"region"`
	Edition   string  `json:"edition"`
	Timeout   int32   `json:"timeout"`
	UserAgent string  `json:"user_agent"`
	Qps       float64 `json:"qps"`
	Burst     int32   `json:"burst"`
}

type Query struct {
	DiscourseTerms []string `json:"discourse_terms"`
}

type Analysis struct {
	Language  string `json:"language"`
	QuotaWait int32  `json:"quota_wait"`
	Timeout   int32  `json:"timeout"`
}

type Providers struct {
	Gemini   *LLM `json:"gemini"`
	Openai   *LLM `json:"openai"`
	Deepseek *LLM `json:"deepseek"`
}

type LLM struct {
	BaseUrl      string   `json:"base_url"`
	ModelsUrl    string   `json:"models_url"`
	ApiKey       string   `json:"api_key"`
	DefaultModel string   `json:"default_model"`
	Models       []string `json:"models"`
}

type Log struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMb  int32  `json:"max_size_mb"`
	MaxBackups int32  `json:"max_backups"`
	MaxAgeDays int32  `json:"max_age_days"`
}

type Session struct {
	// Ttl 会话空闲多久后回收，例如 "2h"
	Ttl string `json:"ttl"`
}
