package insight

import (
	"fmt"
	"strings"

	"shuddhneer/internal/domain"
)

const summaryPrompt = `Analyze this JSON sales data for Shuddhneer water brand: %s.
Provide a 3-bullet point executive summary for the dashboard.
Focus on revenue trends, popular products, or operational bottlenecks (like pending orders).
Format as HTML bullet points (<li>).`

const supportRules = `Brand Tone: Refreshing, polite, pure, helpful.

Rules:
1. Keep answers concise (under 50 words unless detail is asked).
2. If asked about prices, use the provided list.
3. If asked about delivery, say "We typically deliver within 24 hours."
4. If asked about "Alkaline", explain its health benefits briefly.`

func supportContext(products []domain.Product) string {
	var b strings.Builder
	b.WriteString(`You are "AquaBot", the helpful customer support AI for "Shuddhneer", a premium packaged water delivery brand.`)
	b.WriteString("\n\nAvailable Products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s): ₹%s. %s\n", p.Name, p.Volume, p.Price.String(), p.Description)
	}
	b.WriteString("\n")
	b.WriteString(supportRules)
	return b.String()
}
