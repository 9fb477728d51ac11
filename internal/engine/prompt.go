package engine

// LLM prompt templates. Data only.

// suggestRelatedPrompt asks for related video titles.
// Args: search query or video title.
const suggestRelatedPrompt = `You are a helpful assistant that suggests related YouTube videos based on a search query.

Suggest videos related to the following query:
%s

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{"relatedVideos": ["First related video title", "Second related video title"]}

Rules:
- 5-10 titles, most relevant first
- each item is a plausible video title, not a URL and not a description
- use the SAME LANGUAGE as the query`
