package conf

type Bootstrap struct {
	Server   *Server
	Briefing *Briefing
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Briefing struct {
	Llm          *LLM         `json:"llm"`
	Search       *Search      `json:"search"`
	Upstream     *Upstream    `json:"upstream"`
	Concurrency  *Concurrency `json:"concurrency"`
	Log          *Log         `json:"log"`
	CatalogFile  string       `json:"catalog_file"`
	FetchContent bool         `json:"fetch_content"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
}

type Search struct {
	Profile    string   `json:"profile"`
	Semantic   string   `json:"semantic"`
	MaxResults int32    `json:"max_results"`
	Serper     *APIKey  `json:"serper"`
	Exa        *APIKey  `json:"exa"`
	Tavily     *APIKey  `json:"tavily"`
	Searxng    *SearXNG `json:"searxng"`
	Rss        *RSS     `json:"rss"`
}

type APIKey struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type RSS struct {
	Feeds []string `json:"feeds"`
}

type Upstream struct {
	Timeout int32 `json:"timeout"`
	Retries int32 `json:"retries"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
