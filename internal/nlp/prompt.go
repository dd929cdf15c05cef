package nlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// IntentGeneral tags generative replies that carry no usable intent
const IntentGeneral = "general"

// BuildPrompt creates the instruction sent to generative providers
func BuildPrompt(req domain.NLPRequest) string {
	audience := "a visitor or member of the NutriSaas platform"
	if req.IsAdmin {
		audience = "a NutriSaas administrator asking about the platform and its users"
	}

	return fmt.Sprintf(`You are the NutriSaas assistant, a nutrition platform that offers personalized meal plans.
You are talking to %s.

Rules:
1. Always answer in Spanish, in at most three short sentences
2. Only talk about nutrition, healthy habits, recipes and NutriSaas plans
3. Never give medical diagnoses; suggest consulting a nutritionist instead
4. Plans: Básico $9.99/mes, Premium $19.99/mes, Pro $39.99/mes
5. Reply ONLY with a JSON object: {"response": "...", "intent": "...", "confidence": 0.0-1.0}
6. Use one of these intents: greeting, goals, plans, recipes, nutrition, contact, farewell, general

Message: %s

JSON:`, audience, req.Message)
}

// ParseReply extracts the structured answer from raw model output. Output
// that is not valid JSON is kept as the response text.
func ParseReply(content string) domain.NLPResponse {
	raw := extractJSON(content)

	var reply domain.NLPResponse
	if raw != "" && json.Unmarshal([]byte(raw), &reply) == nil && strings.TrimSpace(reply.Response) != "" {
		if reply.Intent == "" {
			reply.Intent = IntentGeneral
		}
		if reply.Confidence < 0 || reply.Confidence > 1 {
			reply.Confidence = 0.5
		}
		return reply
	}

	return domain.NLPResponse{
		Response:   strings.TrimSpace(content),
		Intent:     IntentGeneral,
		Confidence: 0.5,
	}
}

func extractJSON(content string) string {
	if block := extractFromCodeBlock(content, "```json", "```"); block != "" {
		return block
	}
	if block := extractFromCodeBlock(content, "```", "```"); block != "" {
		return block
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	// Skip newline after marker
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
