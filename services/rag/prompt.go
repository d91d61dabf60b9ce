package rag

import "fmt"

// BuildPrompt assembles the grounded question answering prompt. The
// instructions constrain the model to the provided sources and require
// citations, so answers stay traceable to saved content.
func BuildPrompt(question, context string) string {
	return fmt.Sprintf(`You are an intelligent assistant that answers questions based on the user's saved content.

USER'S SAVED CONTENT:
%s

USER'S QUESTION:
%s

INSTRUCTIONS:
1. Answer the question ONLY using information from the saved content provided above
2. If the content contains the answer, provide a clear and concise response
3. Cite which sources you used (e.g., "According to Source 1..." or "Based on the article about...")
4. If the saved content doesn't contain enough information to answer the question, clearly state that
5. Be conversational and natural in your response
6. If you're inferring or making assumptions, mention that clearly

ANSWER:`, context, question)
}
