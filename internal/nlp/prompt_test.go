package nlp_test

import (
	"strings"
	"testing"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
	"github.com/Rrens/nutrisaas-chat/internal/nlp"
)

func TestBuildPrompt(t *testing.T) {
	prompt := nlp.BuildPrompt(domain.NLPRequest{Message: "¿Qué desayuno me recomiendas?"})

	mustContain := []string{
		"NutriSaas",
		"¿Qué desayuno me recomiendas?",
		"Spanish",
		"JSON",
		"visitor or member",
	}

	for _, s := range mustContain {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt should contain %q", s)
		}
	}
}

func TestBuildPrompt_Admin(t *testing.T) {
	prompt := nlp.BuildPrompt(domain.NLPRequest{Message: "resumen", IsAdmin: true})

	if !strings.Contains(prompt, "administrator") {
		t.Error("admin prompt should mention the administrator audience")
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		response   string
		intent     string
		confidence float64
	}{
		{
			name:       "plain json",
			input:      `{"response": "¡Hola!", "intent": "greeting", "confidence": 0.9}`,
			response:   "¡Hola!",
			intent:     "greeting",
			confidence: 0.9,
		},
		{
			name:       "json code block",
			input:      "```json\n{\"response\": \"Come más fibra.\", \"intent\": \"nutrition\", \"confidence\": 0.7}\n```",
			response:   "Come más fibra.",
			intent:     "nutrition",
			confidence: 0.7,
		},
		{
			name:       "json with preamble",
			input:      `Claro: {"response": "Tenemos tres planes."}`,
			response:   "Tenemos tres planes.",
			intent:     nlp.IntentGeneral,
			confidence: 0,
		},
		{
			name:       "not json",
			input:      "  Bebe agua durante el día.  ",
			response:   "Bebe agua durante el día.",
			intent:     nlp.IntentGeneral,
			confidence: 0.5,
		},
		{
			name:       "confidence out of range",
			input:      `{"response": "Ok", "intent": "general", "confidence": 7}`,
			response:   "Ok",
			intent:     "general",
			confidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nlp.ParseReply(tt.input)
			if got.Response != tt.response {
				t.Errorf("Response = %q, want %q", got.Response, tt.response)
			}
			if got.Intent != tt.intent {
				t.Errorf("Intent = %q, want %q", got.Intent, tt.intent)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.confidence)
			}
		})
	}
}
