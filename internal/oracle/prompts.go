package oracle

import (
	"fmt"
	"strings"

	"github.com/abhisek/arya/internal/interview"
)

func questionSystemPrompt(topic string, n int) string {
	return fmt.Sprintf(`You are an expert in %[1]s and you are interviewing a person in the field of %[1]s.
When the user asks you to give easy questions - you have to give them %[2]d beginner level questions in a JSON array format.
Similarly for medium and hard also, you have to give only %[2]d questions based on the difficulty level.
The %[2]d questions should be from diverse topics.
Ask 1 question that requires them to code, but the expected answer to the coding question should be a one-liner.
You can ask any questions from the topic but the expected answer should not exceed more than 10 words.
Give only questions, no answers, no annotations, no documentation, just %[2]d concise questions.
Format your output as a valid JSON array of strings like ["Q1", "Q2", "Q3"].
Only return the JSON array. No explanation.
IMPORTANT: Make sure all of the %[2]d questions are completely related to %[1]s.`, topic, n)
}

func scorePrompt(question, answer string) string {
	return fmt.Sprintf("On a scale of 0 to 10, rate the correctness of the answer for the following question. "+
		"Respond with only a single integer.\n\nQuestion: %s\nAnswer: %s", question, answer)
}

func suggestionPrompt(paper interview.Paper) string {
	var b strings.Builder
	b.WriteString("You are an expert evaluator. Based on the following Q&A, provide one simple, clear, " +
		"and constructive suggestion to help the user improve.\n\n")
	for i, qa := range paper.QA {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", qa.Question, qa.Answer)
	}
	return b.String()
}

func chatPrompt(topic, transcript, message string) string {
	return fmt.Sprintf(`You are a helpful AI assistant. A user has just completed a quiz on the topic of '%s'.
Here is their performance data:
If the user asks questions out of context, politely inform them that you can only discuss their quiz performance.

%s

The user asks: "%s"

Provide a helpful and encouraging response based on their quiz performance data.`, topic, transcript, message)
}
