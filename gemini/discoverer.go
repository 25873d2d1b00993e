// Package gemini provides selector discovery using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CascadingLabs/yosoi"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Discoverer implements yosoi.Discoverer at compile time.
var _ yosoi.Discoverer = (*Discoverer)(nil)

// Discoverer implements yosoi.Discoverer using Google Gemini with
// structured JSON output. The response schema pins the model to the
// candidate map shape, so the verifier never has to guess whether a
// string is a selector or page content.
type Discoverer struct {
	client *genai.Client
}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer(client *genai.Client) *Discoverer {
	return &Discoverer{client: client}
}

// Discover asks Gemini to propose candidate selector tiers for each
// extraction field in the reduced HTML.
func (d *Discoverer) Discover(ctx context.Context, urlContext, reducedHTML string) (yosoi.CandidateMap, error) {
	if reducedHTML == "" {
		return nil, yosoi.Errorf(yosoi.EINVALID, "reduced HTML required")
	}
	if urlContext == "" {
		urlContext = "the provided page"
	}

	prompt := BuildPrompt(urlContext, reducedHTML)
	config := BuildConfig()

	result, err := d.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, yosoi.Errorf(yosoi.EUNAVAILABLE, "gemini request failed: %v", err)
	}
	if result == nil {
		return nil, yosoi.Errorf(yosoi.EUNAVAILABLE, "gemini returned nil result")
	}

	return ParseCandidates(result.Text())
}

// ParseCandidates decodes a structured-output response into a candidate
// map. Returns EINVALID when the response is not the expected shape;
// the orchestrator treats that as a retryable oracle failure.
func ParseCandidates(text string) (yosoi.CandidateMap, error) {
	var candidates yosoi.CandidateMap
	if err := json.Unmarshal([]byte(text), &candidates); err != nil {
		return nil, yosoi.Errorf(yosoi.EINVALID, "unparsable selector response: %v", err)
	}
	if err := candidates.Validate(); err != nil {
		return nil, err
	}

	// Blank tiers mean the same thing as the sentinel.
	for field, set := range candidates {
		if set.Primary == "" {
			set.Primary = yosoi.NASelector
		}
		if set.Fallback == "" {
			set.Fallback = yosoi.NASelector
		}
		if set.Tertiary == "" {
			set.Tertiary = yosoi.NASelector
		}
		candidates[field] = set
	}
	return candidates, nil
}

// BuildConfig returns the GenerateContentConfig for discovery calls.
// The response schema constrains output to one selector set per field.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are analyzing HTML to find CSS selectors for web scraping. " +
					"Return selectors that actually exist in the provided HTML. " +
					"Use the string \"NA\" for any tier you cannot fill.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
}

func responseSchema() *genai.Schema {
	properties := make(map[string]*genai.Schema, len(yosoi.Fields()))
	for _, field := range yosoi.Fields() {
		properties[field] = tierSchema()
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   yosoi.Fields(),
	}
}

func tierSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"primary":  {Type: genai.TypeString, Description: "Most specific selector using actual classes/IDs from the HTML"},
			"fallback": {Type: genai.TypeString, Description: "Less specific but reliable selector"},
			"tertiary": {Type: genai.TypeString, Description: `Generic selector, or "NA" if the field doesn't exist`},
		},
		Required: []string{"primary", "fallback", "tertiary"},
	}
}

// BuildPrompt builds the user prompt containing the reduced HTML and
// per-field instructions.
func BuildPrompt(urlContext, reducedHTML string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this HTML and find selectors for web scraping.\n\n")
	fmt.Fprintf(&sb, "Here is the HTML from %s:\n```html\n%s\n```\n\n", urlContext, reducedHTML)
	sb.WriteString("Find CSS selectors for these fields:\n\n")
	sb.WriteString("**headline** - Main article title (h1/h2 in article, NOT navigation)\n")
	sb.WriteString("**author** - Author name (author/byline classes or links)\n")
	sb.WriteString("**date** - Publication date (time tags or date/published classes)\n")
	sb.WriteString("**body_text** - Article paragraphs (p tags in article, NOT sidebars/ads)\n")
	sb.WriteString("**related_content** - Related article links (aside/sidebar sections)\n\n")
	sb.WriteString("IMPORTANT: Only use selectors that actually exist in the HTML above.")
	return sb.String()
}
