package topics

import "fmt"

const promptTemplate = `You are an expert exam analyst. Your ONLY task is to output a clean, concise list of the TOP 10 most important topics for students to focus on for their upcoming exams, based on the following previous year exam %s.

STRICT INSTRUCTIONS:
- Only output the TOP 10 most important topics.
- Do NOT include any introductory text, breakdowns, section headers, recommendations, or explanations about your process.
- Do NOT include any observations, module names, or summaries.
- Output ONLY a Markdown bullet list of topics.
- For each topic, use this format:
- **Topic Name**: Short explanation here.
- Add a blank line between each topic for readability.
- Do not group, categorize, or add any extra formatting except as described above.
- Your response should ONLY be the list of topics, nothing else.

%s
%s`

// BuildPrompt wraps extracted exam text in the fixed topic-list
// instructions. multiple only changes the wording for combined papers.
func BuildPrompt(text string, multiple bool) string {
	noun, label := "paper", "Exam paper text:"
	if multiple {
		noun, label = "papers", "Combined exam papers text:"
	}
	return fmt.Sprintf(promptTemplate, noun, label, text)
}
