package google

const (
	ModelGemini20Flash = "gemini-2.0-flash"
	ModelGemini25Pro   = "gemini-2.5-pro"
	ModelGemini25Flash = "gemini-2.5-flash"
)
