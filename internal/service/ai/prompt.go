package ai

import (
	"fmt"
	"log"
	"os"
)

// MissingDocsPlaceholder stands in for the documentation when the file is absent.
const MissingDocsPlaceholder = "⚠️ HyperrCompute documentation not found."

const systemPromptTemplate = `You are **Hyperr‑Assistant**, an expert support AI for the decentralized GPU execution platform **HyperrCompute**.
Always act like HyperrCompute's official assistant.
Provide responses with accurate commands, structured information, and helpful context.
Include only helpful sections such as **Steps**, **Tips**, or **Reference Commands** when they are relevant.
Avoid repeating unnecessary headers.

Here's the documentation reference:
%s

User input:
%s`

// Compose builds the system prompt from the persona block, the documentation
// text and the user's message. It is deterministic.
func Compose(docText, userMessage string) string {
	return fmt.Sprintf(systemPromptTemplate, docText, userMessage)
}

// LoadDocs reads the documentation file once. A missing or unreadable file
// yields MissingDocsPlaceholder.
func LoadDocs(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[ai] documentation unavailable at %s: %v", path, err)
		return MissingDocsPlaceholder
	}
	log.Printf("[ai] loaded documentation from %s (%d bytes)", path, len(data))
	return string(data)
}
