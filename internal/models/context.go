package models

// Context item types. A ticket's context is an ordered list of snippets and
// file references that collaborators inject into agent prompts; the core
// stores and edits the list but never interprets the values.
const (
	ContextSnippet = "snippet"
	ContextFile    = "file"
)

// ContextItem is one attached snippet or file reference on a ticket.
type ContextItem struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ValidContextType reports whether t is one of the two context variants.
func ValidContextType(t string) bool {
	return t == ContextSnippet || t == ContextFile
}
