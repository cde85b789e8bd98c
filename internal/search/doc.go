// Package search defines the core crawl domain: the Search job state, the
// breadth-first crawl engine with its frontier, link extraction with domain
// scoping, and the interfaces shared across subsystems.
package search
