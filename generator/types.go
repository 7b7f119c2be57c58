package generator

// Article is the structured draft extracted from one model response.
// It lives for exactly one publish: parsed here, assembled once, then
// discarded.
type Article struct {
	// FocusKeyword is the input term the article is optimized around.
	FocusKeyword string
	// PostTitle comes from the document's single H1; falls back to the
	// focus keyword when the model omits the heading.
	PostTitle string
	// MetaTitle and MetaDescription are best-effort extractions from the
	// numbered response sections.
	MetaTitle       string
	MetaDescription string
	// Body is the markdown remainder after the H1 line. It never contains
	// the heading line that produced PostTitle.
	Body string
}
