// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openrouter

import "strings"

// Model describes a chat model offered through OpenRouter. Priority orders
// the fallback chain, lowest first.
type Model struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Priority    int     `json:"priority"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// DefaultModel is tried first when the caller does not pick one.
const DefaultModel = "x-ai/grok-4-fast"

// Models lists the supported analysis models in fallback order.
var Models = []Model{
	{
		ID:          "x-ai/grok-4-fast",
		Name:        "Grok 4 Fast",
		Description: "Fast and reliable AI model by xAI",
		Priority:    1,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
	{
		ID:          "openai/gpt-5",
		Name:        "GPT-5",
		Description: "OpenAI GPT-5 - Powerful and accurate",
		Priority:    2,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
	{
		ID:          "openai/gpt-oss-120b",
		Name:        "GPT-120B",
		Description: "OpenAI GPT-120B - Open source alternative",
		Priority:    3,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
	{
		ID:          "google/gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Description: "Google Gemini - Fast and efficient",
		Priority:    4,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
	{
		ID:          "openai/gpt-4.1-mini",
		Name:        "GPT-4.1 Mini",
		Description: "OpenAI GPT-4.1 Mini - Fast and efficient",
		Priority:    5,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
	{
		ID:          "x-ai/grok-code-fast-1",
		Name:        "Grok Code Fast 1",
		Description: "xAI Grok Code - Fast and efficient",
		Priority:    6,
		MaxTokens:   3000,
		Temperature: 0.7,
	},
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (Model, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// FallbackChain returns the model IDs to try, starting from preferred if it
// is a known model, then the rest of the catalog in priority order.
func FallbackChain(preferred string) []string {
	chain := make([]string, 0, len(Models))
	if _, ok := Lookup(preferred); ok {
		chain = append(chain, preferred)
	}
	for _, m := range Models {
		if m.ID != preferred {
			chain = append(chain, m.ID)
		}
	}
	return chain
}

// systemPrompt returns the system message tuned for the model family.
func systemPrompt(modelID string) string {
	id := strings.ToLower(modelID)
	switch {
	case strings.Contains(id, "grok"):
		return "You are an expert seismologist analyzing Philippine earthquakes. " +
			"Provide clear, data-driven insights with appropriate technical detail and actionable recommendations."
	case strings.Contains(id, "gpt"):
		return "You are a senior seismologist specializing in the Philippine region. " +
			"Analyze seismic data comprehensively, considering tectonic context, historical patterns, and public safety implications."
	case strings.Contains(id, "gemini"):
		return "As a seismology expert focused on Philippine earthquakes, provide comprehensive analysis " +
			"that balances technical accuracy with accessibility for emergency responders and the public."
	}
	return "You are an expert seismologist with deep knowledge of earthquake patterns, tectonic activity, " +
		"and disaster preparedness in the Philippines region. Provide thorough, accurate, and actionable analysis."
}
