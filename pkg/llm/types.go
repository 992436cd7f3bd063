package llm

// claudeRequest represents the Claude API request format.
type claudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// message is a single conversation turn.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse represents the Claude API response format.
type claudeResponse struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
	Model   string         `json:"model"`
	Usage   usage          `json:"usage"`
}

// contentBlock is a single content element in a response.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// usage reports token consumption.
type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
