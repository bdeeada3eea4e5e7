package intent

import (
	"strings"

	"srh-intent/pkg/taxonomy"
)

// SystemPrompt is sent with every classification request.
const SystemPrompt = "You are an SRH intent classification system. Follow instructions exactly."

// BuildPrompt renders the classification instruction for one query. It is a
// pure function of its inputs; the query is embedded verbatim.
func BuildPrompt(query string, tax *taxonomy.Taxonomy) string {
	var prompt strings.Builder

	prompt.WriteString("Classify the following Hinglish (Romanized Hindi + English) query into exactly ONE topic and ONE subtopic from the intent hierarchy below.\n\n")

	prompt.WriteString("### Intent Hierarchy:\n")
	prompt.WriteString(tax.IndentedJSON("    "))
	prompt.WriteString("\n\n")

	prompt.WriteString("**Query (Hinglish):** \"")
	prompt.WriteString(query)
	prompt.WriteString("\"\n\n")

	prompt.WriteString("**Output Format:**\n")
	prompt.WriteString("Return your answer inside a JSON code block like this:\n\n")
	prompt.WriteString("```json\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"Topic\": \"<selected_topic>\",\n")
	prompt.WriteString("  \"Subtopic\": \"<selected_subtopic_from_that_topic>\",\n")
	prompt.WriteString("  \"Confidence\": <number between 0.0 and 1.0>,\n")
	prompt.WriteString("  \"Reason\": \"<short reason>\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("```\n")

	prompt.WriteString("# Rules:\n")
	prompt.WriteString("1. Select ONLY ONE topic and ONE subtopic.\n")
	prompt.WriteString("2. The subtopic MUST belong to the selected topic.\n")
	prompt.WriteString("3. Confidence MUST be a decimal number between 0.0 and 1.0.\n")
	prompt.WriteString("4. Reason MUST be a short sentence (max 20 words).\n")
	prompt.WriteString("5. Output MUST be valid JSON inside a JSON code block.\n\n")

	prompt.WriteString("# Final instruction\n")
	prompt.WriteString("Return just the json object in markdown format. Do not include any other text in the response.")

	return prompt.String()
}
