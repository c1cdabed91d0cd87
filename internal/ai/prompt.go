package ai

import "fmt"

const systemPrompt = "You are a business analysis assistant. Reply in concise JSON unless asked for prose."

// buildPrompt asks the model for the result fields in a strict JSON shape.
// Both backends send the same instructions; only the transport differs.
func buildPrompt(content string) string {
	return fmt.Sprintf(`Analyze the following business website content.

Return JSON only with this exact structure:
{
  "score": number from 0 to 100,
  "strengths": ["strength1", "strength2"],
  "weaknesses": ["weakness1"],
  "recommendations": ["recommendation1"],
  "categories": {"trust": number, "content": number, "conversion": number, "presence": number},
  "summary": "one or two sentences"
}

Rules:
- score: overall business readiness, 0-100
- categories: each value 0-100
- strengths: what the business does well online (max 5 items)
- weaknesses: gaps hurting the business (max 5 items)
- recommendations: concrete next steps (max 5 items)
- summary: short prose, no markdown

Content:
%s

Respond ONLY with valid JSON, no code fences.`, content)
}
