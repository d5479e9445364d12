// Package research gathers configuration best practices per topic. A curated
// knowledge base is the floor; an optional provider synthesizes stack-specific
// additions, cached between runs. Topics are researched in parallel.
package research
